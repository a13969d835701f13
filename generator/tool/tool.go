// Package tool derives a small set of higher-level tool descriptors from the
// actions of an adapter: at most one "create" and one "list" tool for each of
// the first few categories.
//
// Matching is best-effort string matching on action ids. A category with no
// matching action simply produces no tool.
package tool

import (
	"fmt"
	"strings"

	"github.com/yougroupteam/adaptergen/generator/action"
	"github.com/yougroupteam/adaptergen/naming"
	"github.com/yougroupteam/adaptergen/spec"
)

// MaxCategories bounds how many categories are considered, and so the number
// of tools, at 2*MaxCategories.
const MaxCategories = 5

// Tool kinds, also used as the last segment of a tool name.
const (
	KindCreate = "create"
	KindList   = "list"
)

// Tool is a reduced operation descriptor derived from one action.
type Tool struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	InputSchema *spec.Schema `json:"inputSchema"`
}

// Synthesize returns the tools for the first MaxCategories categories, in
// category order, create before list. Tool names are `{slug}_{category}_{kind}`
// and each tool reuses the matched action's input schema unchanged.
func Synthesize(actions []*action.Action, categories []string, slug, adapterName string) []*Tool {
	tools := make([]*Tool, 0)

	if len(categories) > MaxCategories {
		categories = categories[:MaxCategories]
	}

	for _, category := range categories {
		if create := find(actions, category, IsCreate); create != nil {
			tools = append(tools, &Tool{
				Name:        name(slug, category, KindCreate),
				Description: fmt.Sprintf("Create a new %s record in %s", naming.Words(category), adapterName),
				InputSchema: create.InputSchema,
			})
		}
		if list := find(actions, category, IsList); list != nil {
			tools = append(tools, &Tool{
				Name:        name(slug, category, KindList),
				Description: fmt.Sprintf("List %s records from %s", naming.Words(category), adapterName),
				InputSchema: list.InputSchema,
			})
		}
	}
	return tools
}

// IsCreate reports whether an action id looks like a create: it starts with
// "create" or "post".
func IsCreate(id string) bool {
	return strings.HasPrefix(id, "create") || strings.HasPrefix(id, "post")
}

// IsList reports whether an action id looks like a list: it starts with
// "list", or starts with "get" and contains "all" anywhere.
//
// Unlike IsCreate this also matches a substring. Both checks must keep their
// current selection.
func IsList(id string) bool {
	return strings.HasPrefix(id, "list") ||
		(strings.HasPrefix(id, "get") && strings.Contains(id, "all"))
}

func find(actions []*action.Action, category string, match func(string) bool) *action.Action {
	for _, a := range actions {
		if a.Category == category && match(a.ID) {
			return a
		}
	}
	return nil
}

func name(slug, category, kind string) string {
	return slug + naming.Separator + category + naming.Separator + kind
}
