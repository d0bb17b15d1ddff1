package model

// Role tags a node with its function in the facility network.
type Role string

const (
	RoleSupply       Role = "supply"
	RoleOutput       Role = "output"
	RoleDependency   Role = "dependency"
	RoleTranshipment Role = "transhipment"
)

// Node is a single facility component.
type Node struct {
	ID           string  `yaml:"id" json:"id"`
	Type         string  `yaml:"type" json:"type"` // key into the fragility table set
	Role         Role    `yaml:"role" json:"role"`
	Capacity     float64 `yaml:"capacity" json:"capacity"`
	CostFraction float64 `yaml:"cost_fraction" json:"cost_fraction"`

	// Supply nodes only.
	Commodity   string  `yaml:"commodity,omitempty" json:"commodity,omitempty"`
	CapFraction float64 `yaml:"cap_fraction,omitempty" json:"cap_fraction,omitempty"`

	// Output nodes only. Priority 1 is restored first.
	Demand   float64 `yaml:"demand,omitempty" json:"demand,omitempty"`
	Priority int     `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// Edge is a directed or bidirectional connection between two nodes.
type Edge struct {
	From          string  `yaml:"from" json:"from"`
	To            string  `yaml:"to" json:"to"`
	Capacity      float64 `yaml:"capacity" json:"capacity"`
	Bidirectional bool    `yaml:"bidirectional,omitempty" json:"bidirectional,omitempty"`
}

// Definition is the raw facility description as loaded from YAML.
type Definition struct {
	Name  string `yaml:"name" json:"name"`
	Nodes []Node `yaml:"nodes" json:"nodes"`
	Edges []Edge `yaml:"edges" json:"edges"`
}
