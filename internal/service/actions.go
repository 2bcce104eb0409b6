package service

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind enumerates the transitions a requester can ask of a pending
// batch.
type ActionKind int

const (
	ActionConfirm ActionKind = iota
	ActionCancel
	ActionEdit
	ActionSelectCategory
	ActionSelectSubcategory
	ActionBack
)

// Action is one decoded transition request. Index fields are only
// meaningful for the kinds that carry them.
type Action struct {
	Kind        ActionKind
	Item        int // record index within the batch
	Category    int // index into categories.Names()
	Subcategory int // index into the chosen category's subcategory list
}

// ParseAction decodes the wire encoding used by the chat and CLI surfaces
// ("confirm:<id>", "edit:<id>:<item>", "cat:<id>:<item>:<cat>",
// "sub:<id>:<item>:<cat>:<sub>", ...) into a batch id and a typed Action.
// This is the only place the colon encoding exists; everything downstream
// works with Action values.
func ParseAction(data string) (string, Action, error) {
	parts := strings.Split(data, ":")
	bad := func() (string, Action, error) {
		return "", Action{}, fmt.Errorf("unrecognized action %q", data)
	}
	if len(parts) < 2 {
		return bad()
	}
	id := parts[1]

	idx := func(i int) (int, bool) {
		if i >= len(parts) {
			return 0, false
		}
		n, err := strconv.Atoi(parts[i])
		return n, err == nil && n >= 0
	}

	switch parts[0] {
	case "confirm":
		return id, Action{Kind: ActionConfirm}, nil
	case "cancel":
		return id, Action{Kind: ActionCancel}, nil
	case "back":
		return id, Action{Kind: ActionBack}, nil
	case "edit":
		item, ok := idx(2)
		if !ok {
			return bad()
		}
		return id, Action{Kind: ActionEdit, Item: item}, nil
	case "cat":
		item, ok1 := idx(2)
		cat, ok2 := idx(3)
		if !ok1 || !ok2 {
			return bad()
		}
		return id, Action{Kind: ActionSelectCategory, Item: item, Category: cat}, nil
	case "sub":
		item, ok1 := idx(2)
		cat, ok2 := idx(3)
		sub, ok3 := idx(4)
		if !ok1 || !ok2 || !ok3 {
			return bad()
		}
		return id, Action{Kind: ActionSelectSubcategory, Item: item, Category: cat, Subcategory: sub}, nil
	default:
		return bad()
	}
}
