package tokenizer

// Tags is the ordered tag sequence of a TokenElement.
// A *Tags obtained from TokenElement.Tags aliases the element's storage.
type Tags []string

// Add appends tags in order.
func (t *Tags) Add(tags ...string) {
	*t = append(*t, tags...)
}

// Len returns the number of tags.
func (t *Tags) Len() int { return len(*t) }

// At returns the i-th tag. It panics if i is out of range.
func (t *Tags) At(i int) string { return (*t)[i] }

// Values returns the backing slice, not a copy.
func (t *Tags) Values() []string { return *t }

// Contains reports whether tag is present.
func (t *Tags) Contains(tag string) bool {
	for _, v := range *t {
		if v == tag {
			return true
		}
	}
	return false
}
