package scan

// Owner identifies one activation of a multi-line construct.
type Owner uint64

// Env carries host-supplied context into multi-line constructs.
type Env struct {
	// Interrupt is set when the construct starts while another block, such
	// as a paragraph, is still open. Only the opening line is then checked
	// and no line is claimed.
	Interrupt bool
	Lines     *LineRegistry
	Owner     Owner
}

// Claim claims line for the env's owner. A nil registry accepts everything.
func (e Env) Claim(line int) bool {
	if e.Lines == nil {
		return true
	}
	return e.Lines.Claim(line, e.Owner)
}

// LineRegistry records which open construct owns each physical line,
// keyed by the byte offset of the line start. It belongs to a single parse
// and is not safe for concurrent use.
type LineRegistry struct {
	owners map[int]Owner
	seq    Owner
}

// NewLineRegistry returns an empty registry.
func NewLineRegistry() *LineRegistry {
	return &LineRegistry{owners: map[int]Owner{}}
}

// NewOwner allocates a fresh owner id. Ids start at 1.
func (r *LineRegistry) NewOwner() Owner {
	r.seq++
	return r.seq
}

// Claim records owner for line. It refuses a line already held by a
// different owner.
func (r *LineRegistry) Claim(line int, owner Owner) bool {
	if cur, ok := r.owners[line]; ok && cur != owner {
		return false
	}
	r.owners[line] = owner
	return true
}

// Owner returns the owner of line, if any.
func (r *LineRegistry) Owner(line int) (Owner, bool) {
	o, ok := r.owners[line]
	return o, ok
}

// Lazy reports whether line is held by someone other than owner.
func (r *LineRegistry) Lazy(line int, owner Owner) bool {
	o, ok := r.Owner(line)
	return ok && o != owner
}

// Release drops every line held by owner. Closed constructs release their
// lines so that later constructs see them as free.
func (r *LineRegistry) Release(owner Owner) {
	for line, o := range r.owners {
		if o == owner {
			delete(r.owners, line)
		}
	}
}
