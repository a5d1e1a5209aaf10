package model

// AttackStep represents a single directed transition in the attack graph:
// reaching Target from Source by using the named exploit.
type AttackStep struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	Exploit string `json:"exploit"`
}

// AttackPath is an ordered sequence of states from an entry point to a
// target asset, together with the exploit used for each transition.
// Steps has exactly len(Nodes)-1 entries.
type AttackPath struct {
	Nodes []string     `json:"nodes"`
	Steps []AttackStep `json:"steps"`
}

// Length returns the number of exploit steps in the path.
func (p *AttackPath) Length() int {
	if len(p.Nodes) == 0 {
		return 0
	}
	return len(p.Nodes) - 1
}

// Start returns the entry state of the path.
func (p *AttackPath) Start() string {
	if len(p.Nodes) == 0 {
		return ""
	}
	return p.Nodes[0]
}

// Target returns the final state of the path.
func (p *AttackPath) Target() string {
	if len(p.Nodes) == 0 {
		return ""
	}
	return p.Nodes[len(p.Nodes)-1]
}

// Contains reports whether the path visits the given state.
func (p *AttackPath) Contains(node string) bool {
	for _, n := range p.Nodes {
		if n == node {
			return true
		}
	}
	return false
}
