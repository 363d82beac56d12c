package redirect

// Key is the request config entry controlling redirect following.
// Accepted values: a bool (false disables), the string [ModeStrict],
// or an [Options] value. Absent means enabled with defaults.
const Key = "allow_redirects"

// ModeStrict enables following with the strict method policy and the
// default maximum.
const ModeStrict = "strict"

// DefaultMax bounds how many redirects are followed for one original
// request unless overridden.
const DefaultMax = 5

// Priority is where the subscriber sits in after-send dispatch, high
// enough to replace the response before consumers observe it.
const Priority = 900

// Bookkeeping carried on hop requests through their config.
const (
	countKey = "redirect_count"
	chainKey = "redirect_chain"
)

// Options configures following per request when stored under [Key].
type Options struct {
	// Max bounds the chain length. Non-positive means DefaultMax.
	Max int
	// Strict preserves method and body across every 3xx instead of
	// downgrading entity-enclosing methods to GET.
	Strict bool
}

// policy is the resolved per-request decision.
type policy struct {
	max    int
	strict bool
}

// policyFor reads Key from cfg. The second return reports whether
// following is enabled at all; false, an empty string, or nil disable
// it.
func policyFor(v any, present bool) (policy, bool) {
	if !present {
		return policy{max: DefaultMax}, true
	}

	switch v := v.(type) {
	case nil:
		return policy{}, false
	case bool:
		if !v {
			return policy{}, false
		}
		return policy{max: DefaultMax}, true
	case string:
		if v == "" {
			return policy{}, false
		}
		return policy{max: DefaultMax, strict: v == ModeStrict}, true
	case Options:
		return normalize(v), true
	case *Options:
		if v == nil {
			return policy{}, false
		}
		return normalize(*v), true
	}

	return policy{max: DefaultMax}, true
}

func normalize(o Options) policy {
	p := policy{max: o.Max, strict: o.Strict}
	if p.max <= 0 {
		p.max = DefaultMax
	}

	return p
}
