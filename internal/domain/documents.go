package domain

// DocumentSet maps document names to extracted text and remembers insertion order.
// Putting an existing name replaces its text but keeps its original position.
type DocumentSet struct {
	order []string
	text  map[string]string
}

func NewDocumentSet() *DocumentSet {
	return &DocumentSet{text: make(map[string]string)}
}

// Put stores text under name, last write wins.
func (d *DocumentSet) Put(name, text string) {
	if _, ok := d.text[name]; !ok {
		d.order = append(d.order, name)
	}
	d.text[name] = text
}

// Get returns the text stored for name.
func (d *DocumentSet) Get(name string) (string, bool) {
	t, ok := d.text[name]
	return t, ok
}

// Names returns document names in insertion order.
func (d *DocumentSet) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

func (d *DocumentSet) Len() int { return len(d.order) }

// Reset drops every document.
func (d *DocumentSet) Reset() {
	d.order = nil
	d.text = make(map[string]string)
}
