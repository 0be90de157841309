package domain

// KindSignerRequest is the event kind carrying remote-signer RPC traffic.
const KindSignerRequest = 24133

// Event is the relay wire unit: a signed, timestamped, tagged payload.
type Event struct {
	ID        string     `json:"id"`
	PubKey    string     `json:"pubkey"`
	CreatedAt int64      `json:"created_at"`
	Kind      int        `json:"kind"`
	Tags      [][]string `json:"tags"`
	Content   string     `json:"content"`
	Sig       string     `json:"sig"`
}

// Tag returns the first value of the named tag.
func (e *Event) Tag(name string) (string, bool) {
	for _, t := range e.Tags {
		if len(t) >= 2 && t[0] == name {
			return t[1], true
		}
	}
	return "", false
}

// Filter selects events from a relay subscription.
type Filter struct {
	Authors []string `json:"authors,omitempty"`
	Kinds   []int    `json:"kinds,omitempty"`
	P       []string `json:"#p,omitempty"`
	Since   int64    `json:"since,omitempty"`
}

// Matches reports whether ev satisfies every populated constraint.
func (f Filter) Matches(ev Event) bool {
	if len(f.Kinds) > 0 && !containsInt(f.Kinds, ev.Kind) {
		return false
	}
	if len(f.Authors) > 0 && !containsString(f.Authors, ev.PubKey) {
		return false
	}
	if len(f.P) > 0 {
		p, ok := ev.Tag("p")
		if !ok || !containsString(f.P, p) {
			return false
		}
	}
	if f.Since > 0 && ev.CreatedAt < f.Since {
		return false
	}
	return true
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
