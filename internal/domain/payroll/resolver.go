package payroll

import (
	"fmt"
	"sort"
)

// ResolveRules produces the complete, deduplicated rule set of a
// structure: the rules of the structure and all its ancestor
// structures, each expanded with its child rule closure, ordered by
// sequence ascending with ties kept in input order.
func ResolveRules(structureID string, structures map[string]SalaryStructure, rules map[string]SalaryRule) ([]RuleRef, error) {
	chain, err := structureChain(structureID, structures)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var refs []RuleRef
	for _, structure := range chain {
		for _, ruleID := range structure.RuleIDs {
			if err := appendRuleClosure(ruleID, rules, seen, &refs); err != nil {
				return nil, err
			}
		}
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Sequence < refs[j].Sequence
	})
	return refs, nil
}

// structureChain returns the inheritance chain root first, ending with
// the requested structure.
func structureChain(structureID string, structures map[string]SalaryStructure) ([]SalaryStructure, error) {
	var chain []SalaryStructure
	visited := map[string]bool{}
	id := structureID
	for id != "" {
		if visited[id] {
			return nil, fmt.Errorf("%w: structure %s", ErrStructureCycle, id)
		}
		visited[id] = true
		structure, ok := structures[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrStructureNotFound, id)
		}
		chain = append(chain, structure)
		id = structure.ParentID
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func appendRuleClosure(ruleID string, rules map[string]SalaryRule, seen map[string]bool, refs *[]RuleRef) error {
	if seen[ruleID] {
		return nil
	}
	rule, ok := rules[ruleID]
	if !ok {
		return fmt.Errorf("salary rule %s not found", ruleID)
	}
	seen[ruleID] = true
	*refs = append(*refs, RuleRef{ID: rule.ID, Sequence: rule.Sequence})
	for _, childID := range rule.ChildIDs {
		if err := appendRuleClosure(childID, rules, seen, refs); err != nil {
			return err
		}
	}
	return nil
}

// descendantClosure collects a rule and every rule reachable through
// child links. Used to blacklist the implied set of a failed rule.
func descendantClosure(ruleID string, rules map[string]SalaryRule) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(id string)
	walk = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
		if rule, ok := rules[id]; ok {
			for _, childID := range rule.ChildIDs {
				walk(childID)
			}
		}
	}
	walk(ruleID)
	return out
}
