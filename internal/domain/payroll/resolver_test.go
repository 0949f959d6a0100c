package payroll

import (
	"errors"
	"testing"
)

func refCodes(refs []RuleRef, rules map[string]SalaryRule) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, rules[ref.ID].Code)
	}
	return out
}

func TestResolveRulesOrdersBySequence(t *testing.T) {
	rules := map[string]SalaryRule{
		"r-tax":   {ID: "r-tax", Code: "TAX", Sequence: 100},
		"r-basic": {ID: "r-basic", Code: "BASIC", Sequence: 1},
		"r-alw":   {ID: "r-alw", Code: "ALW", Sequence: 20},
	}
	structures := map[string]SalaryStructure{
		"s1": {ID: "s1", Code: "STD", RuleIDs: []string{"r-tax", "r-basic", "r-alw"}},
	}

	refs, err := ResolveRules("s1", structures, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := refCodes(refs, rules)
	want := []string{"BASIC", "ALW", "TAX"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestResolveRulesExpandsChildClosure(t *testing.T) {
	rules := map[string]SalaryRule{
		"r-parent": {ID: "r-parent", Code: "PARENT", Sequence: 10, ChildIDs: []string{"r-child"}},
		"r-child":  {ID: "r-child", Code: "CHILD", Sequence: 11, ChildIDs: []string{"r-grand"}},
		"r-grand":  {ID: "r-grand", Code: "GRAND", Sequence: 12},
	}
	structures := map[string]SalaryStructure{
		"s1": {ID: "s1", RuleIDs: []string{"r-parent"}},
	}

	refs, err := ResolveRules("s1", structures, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 3 {
		t.Fatalf("expected closure of 3 rules, got %d", len(refs))
	}
}

func TestResolveRulesDeduplicates(t *testing.T) {
	rules := map[string]SalaryRule{
		"r-a": {ID: "r-a", Code: "A", Sequence: 1, ChildIDs: []string{"r-c"}},
		"r-b": {ID: "r-b", Code: "B", Sequence: 2, ChildIDs: []string{"r-c"}},
		"r-c": {ID: "r-c", Code: "C", Sequence: 3},
	}
	structures := map[string]SalaryStructure{
		"s1": {ID: "s1", RuleIDs: []string{"r-a", "r-b", "r-c"}},
	}

	refs, err := ResolveRules("s1", structures, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 3 {
		t.Fatalf("expected 3 unique rules, got %d", len(refs))
	}
}

func TestResolveRulesIncludesParentStructures(t *testing.T) {
	rules := map[string]SalaryRule{
		"r-base":  {ID: "r-base", Code: "BASE", Sequence: 1},
		"r-local": {ID: "r-local", Code: "LOCAL", Sequence: 2},
	}
	structures := map[string]SalaryStructure{
		"s-root":  {ID: "s-root", RuleIDs: []string{"r-base"}},
		"s-child": {ID: "s-child", ParentID: "s-root", RuleIDs: []string{"r-local"}},
	}

	refs, err := ResolveRules("s-child", structures, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := refCodes(refs, rules)
	if len(got) != 2 || got[0] != "BASE" || got[1] != "LOCAL" {
		t.Fatalf("expected [BASE LOCAL], got %v", got)
	}
}

func TestResolveRulesStableTieOrder(t *testing.T) {
	rules := map[string]SalaryRule{
		"r-x": {ID: "r-x", Code: "X", Sequence: 5},
		"r-y": {ID: "r-y", Code: "Y", Sequence: 5},
		"r-z": {ID: "r-z", Code: "Z", Sequence: 5},
	}
	structures := map[string]SalaryStructure{
		"s1": {ID: "s1", RuleIDs: []string{"r-y", "r-z", "r-x"}},
	}

	refs, err := ResolveRules("s1", structures, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := refCodes(refs, rules)
	if got[0] != "Y" || got[1] != "Z" || got[2] != "X" {
		t.Fatalf("expected insertion order kept on ties, got %v", got)
	}
}

func TestResolveRulesStructureCycle(t *testing.T) {
	structures := map[string]SalaryStructure{
		"s-a": {ID: "s-a", ParentID: "s-b"},
		"s-b": {ID: "s-b", ParentID: "s-a"},
	}

	_, err := ResolveRules("s-a", structures, nil)
	if !errors.Is(err, ErrStructureCycle) {
		t.Fatalf("expected ErrStructureCycle, got %v", err)
	}
}

func TestResolveRulesUnknownStructure(t *testing.T) {
	_, err := ResolveRules("missing", map[string]SalaryStructure{}, nil)
	if !errors.Is(err, ErrStructureNotFound) {
		t.Fatalf("expected ErrStructureNotFound, got %v", err)
	}
}

func TestDescendantClosureIncludesSelf(t *testing.T) {
	rules := map[string]SalaryRule{
		"r-a": {ID: "r-a", ChildIDs: []string{"r-b"}},
		"r-b": {ID: "r-b", ChildIDs: []string{"r-a"}},
	}
	closure := descendantClosure("r-a", rules)
	if len(closure) != 2 {
		t.Fatalf("expected cycle-safe closure of 2, got %v", closure)
	}
	if closure[0] != "r-a" {
		t.Fatalf("expected closure to start with the rule itself, got %v", closure)
	}
}
