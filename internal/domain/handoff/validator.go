package handoff

import "sort"

// Validator checks hand-off declarations against an allowed-target policy
// and a designated terminal agent. The zero value rejects everything
// except terminal hand-offs; use Builtin or NewValidator.
type Validator struct {
	allowed  map[string][]string
	terminal string
}

// NewValidator builds a validator from an allowed-handoff policy and the
// name of the terminal agent.
func NewValidator(allowed map[string][]string, terminal string) *Validator {
	return &Validator{allowed: allowed, terminal: terminal}
}

// NewValidatorFromTable derives a validator from the table's own
// declarations: from may hand off to to when to declares from in its
// accepts_from set. The terminal agent is the highest-stage agent with
// no outgoing edge.
func NewValidatorFromTable(table Table) *Validator {
	allowed := make(map[string][]string, len(table))
	terminal := ""
	terminalStage := -1
	for _, name := range sortedNames(table) {
		a := table[name]
		for _, from := range a.AcceptsFrom {
			if from == "initial" {
				continue
			}
			allowed[from] = append(allowed[from], name)
		}
		if a.HandsOffTo == "" && a.WorkflowStage > terminalStage {
			terminal = name
			terminalStage = a.WorkflowStage
		}
	}
	return &Validator{allowed: allowed, terminal: terminal}
}

// Terminal returns the designated terminal agent name.
func (v *Validator) Terminal() string { return v.terminal }

// ValidateHandoff reports whether from may hand off to to. An empty target
// is the terminal hand-off and is always valid.
func (v *Validator) ValidateHandoff(from, to string) bool {
	if to == "" {
		return true
	}
	targets, ok := v.allowed[from]
	if !ok {
		return false
	}
	for _, t := range targets {
		if t == to {
			return true
		}
	}
	return false
}

// DetectCircularDependency follows each agent's single declared hands_off_to
// edge depth-first with a recursion stack. It returns the first cycle found
// as the sub-path from the revisited agent back to itself, or nil when the
// graph is acyclic. Since every agent has at most one outgoing edge the
// reachable structure is a forest of chains and cycles, so the walk is
// linear in the number of agents.
func DetectCircularDependency(table Table) []string {
	visited := make(map[string]bool, len(table))
	onStack := make(map[string]bool, len(table))

	var walk func(name string, path []string) []string
	walk = func(name string, path []string) []string {
		if onStack[name] {
			for i, p := range path {
				if p == name {
					cycle := append([]string{}, path[i:]...)
					return append(cycle, name)
				}
			}
			return nil
		}
		if visited[name] {
			return nil
		}
		visited[name] = true
		onStack[name] = true
		defer func() { onStack[name] = false }()

		if a, ok := table[name]; ok && a.HandsOffTo != "" {
			return walk(a.HandsOffTo, append(path, name))
		}
		return nil
	}

	for _, name := range sortedNames(table) {
		if visited[name] {
			continue
		}
		if cycle := walk(name, nil); cycle != nil {
			return cycle
		}
	}
	return nil
}

// ValidateWorkflowProgression checks that every declared hand-off moves
// strictly forward through the canonical stage order. Agents at the
// cross-cutting stage are exempt in both directions, and hand-offs to the
// terminal agent are always allowed. All violations are returned so the
// table can be fixed in one pass.
func (v *Validator) ValidateWorkflowProgression(table Table) []Violation {
	var violations []Violation
	for _, name := range sortedNames(table) {
		a := table[name]
		if a.HandsOffTo == "" {
			continue
		}
		if a.WorkflowStage == CrossCuttingStage {
			continue
		}
		target, ok := table[a.HandsOffTo]
		if !ok {
			continue
		}
		if target.WorkflowStage == CrossCuttingStage {
			continue
		}
		if a.HandsOffTo == v.terminal {
			continue
		}
		if target.WorkflowStage <= a.WorkflowStage {
			violations = append(violations, Violation{
				Agent:     name,
				Target:    a.HandsOffTo,
				FromStage: a.WorkflowStage,
				ToStage:   target.WorkflowStage,
			})
		}
	}
	return violations
}

func sortedNames(table Table) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
