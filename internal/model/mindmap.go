package model

// MindMapNode is a labeled, narrated node of a mind map. The narration is a
// plain sentence explaining the label in the context of its parent.
type MindMapNode struct {
	Label     string `json:"label"`
	Narration string `json:"narration"`
}

// MindMapBranch is a key branch of the map with its subpoints
type MindMapBranch struct {
	MindMapNode
	Points []MindMapNode `json:"points"`
}

// MindMap is the structured tree produced from a summary: one central topic
// with three to five branches of two to four points each.
type MindMap struct {
	Central  MindMapNode     `json:"central"`
	Branches []MindMapBranch `json:"branches"`
}
