package jsonast

// Document is the top-level JSON AST document.
type Document struct {
	Smithy   string                `json:"smithy"`
	Metadata map[string]any        `json:"metadata,omitempty"`
	Shapes   map[string]*ShapeNode `json:"shapes"`
}

// ShapeNode is a single entry of the "shapes" object. Which fields are set
// depends on Type.
type ShapeNode struct {
	Type string `json:"type"`

	// service
	Version string `json:"version,omitempty"`

	// list, set and map
	Member *MemberNode `json:"member,omitempty"`
	Key    *MemberNode `json:"key,omitempty"`
	Value  *MemberNode `json:"value,omitempty"`

	// structure and union
	Members map[string]*MemberNode `json:"members,omitempty"`

	// operation
	Input  *TargetNode  `json:"input,omitempty"`
	Output *TargetNode  `json:"output,omitempty"`
	Errors []TargetNode `json:"errors,omitempty"`

	// resource
	Identifiers          map[string]TargetNode `json:"identifiers,omitempty"`
	Create               *TargetNode           `json:"create,omitempty"`
	Put                  *TargetNode           `json:"put,omitempty"`
	Read                 *TargetNode           `json:"read,omitempty"`
	Update               *TargetNode           `json:"update,omitempty"`
	Delete               *TargetNode           `json:"delete,omitempty"`
	List                 *TargetNode           `json:"list,omitempty"`
	CollectionOperations []TargetNode          `json:"collectionOperations,omitempty"`

	// service and resource
	Operations []TargetNode `json:"operations,omitempty"`
	Resources  []TargetNode `json:"resources,omitempty"`

	Traits map[string]any `json:"traits,omitempty"`
}

// MemberNode is a member definition.
type MemberNode struct {
	Target string         `json:"target"`
	Traits map[string]any `json:"traits,omitempty"`
}

// TargetNode is a reference to another shape.
type TargetNode struct {
	Target string `json:"target"`
}

const (
	typeApply     = "apply"
	typeList      = "list"
	typeSet       = "set"
	typeMap       = "map"
	typeStructure = "structure"
	typeUnion     = "union"
	typeService   = "service"
	typeOperation = "operation"
	typeResource  = "resource"
)
