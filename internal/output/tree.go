package output

import (
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// descriptionColumn aligns shape types.
	descriptionColumn = 40
)

// TreeNode is a namespace, shape or member in a rendered tree.
type TreeNode struct {
	Name        string
	Description string
	Children    []*TreeNode
}

func (n *TreeNode) child(name string) *TreeNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	c := &TreeNode{Name: name}
	n.Children = append(n.Children, c)
	return c
}

// RenderShapeTree renders rows grouped by namespace, with members under
// their shape:
//
//	example.motd
//	├── Date                              string
//	└── GetMessageInput                   structure
//	    └── date                          member -> example.motd#Date
func RenderShapeTree(rows []ShapeRow) string {
	if len(rows) == 0 {
		return ""
	}

	root := &TreeNode{}
	for _, r := range rows {
		ns, rest, ok := strings.Cut(r.ID, "#")
		if !ok {
			ns, rest = "", r.ID
		}
		shape, member, isMember := strings.Cut(rest, "$")

		node := root.child(ns).child(shape)
		if isMember {
			node = node.child(member)
		}
		node.Description = r.Type
		if r.Target != "" {
			node.Description += " -> " + r.Target
		}
	}
	sortTree(root)

	styles := GetStyles()
	var sb strings.Builder
	for _, ns := range root.Children {
		sb.WriteString(styles.Bold.Render(ns.Name))
		sb.WriteString("\n")
		for i, child := range ns.Children {
			renderNode(&sb, styles, child, "", i == len(ns.Children)-1)
		}
	}
	return sb.String()
}

func sortTree(node *TreeNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		sortTree(child)
	}
}

func renderNode(sb *strings.Builder, styles *Styles, node *TreeNode, prefix string, isLast bool) {
	connector := treeEdge
	if isLast {
		connector = treeLast
	}

	line := prefix + connector + node.Name
	if node.Description != "" {
		padding := descriptionColumn - len([]rune(line))
		if padding < 2 {
			padding = 2
		}
		line += strings.Repeat(" ", padding)
		line += styles.Muted.Render(node.Description)
	}
	sb.WriteString(line)
	sb.WriteString("\n")

	childPrefix := prefix + treeVert
	if isLast {
		childPrefix = prefix + treeSpace
	}
	for i, child := range node.Children {
		renderNode(sb, styles, child, childPrefix, i == len(node.Children)-1)
	}
}
