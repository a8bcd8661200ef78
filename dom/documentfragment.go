package dom

// DocumentFragment is a lightweight container of nodes without a parent.
// Inserting a fragment moves its children out, leaving it empty.
type DocumentFragment Node

// AsNode returns the underlying Node.
func (df *DocumentFragment) AsNode() *Node {
	return (*Node)(df)
}

func (df *DocumentFragment) Children() *HTMLCollection {
	return df.AsNode().Children()
}

func (df *DocumentFragment) QuerySelector(selector string) (*Element, error) {
	return df.AsNode().QuerySelector(selector)
}

func (df *DocumentFragment) QuerySelectorAll(selector string) (*NodeList, error) {
	return df.AsNode().QuerySelectorAll(selector)
}

// GetElementById returns the first descendant element with the given id.
func (df *DocumentFragment) GetElementById(id string) *Element {
	return df.AsNode().getElementByID(id)
}

// Release stops the owner document from treating the fragment's subtree as
// reachable. Entries for its nodes are evicted by the next Collect.
func (df *DocumentFragment) Release() {
	df.doc.untrack(df.handle)
}
