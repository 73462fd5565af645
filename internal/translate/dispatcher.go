package translate

import "fmt"

// Dispatcher tries a registry's entries in order and returns the first
// matching entry's result
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher returns a dispatcher over reg.
func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{registry: reg}
}

// Registry returns the registry the dispatcher sequences.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Translate dispatches site. The first entry whose key and predicate match
// decides the outcome, including a NotApplicable outcome; later entries are
// not consulted. Every NotApplicable result carries the site identity.
func (d *Dispatcher) Translate(site Site) Result {
	id := site.Identity()
	for _, pos := range d.registry.candidates(id) {
		e := d.registry.entries[pos]
		if !e.matches(site) {
			continue
		}
		return e.Translate(site).WithSite(id)
	}
	return NotApplicable(ReasonNoRule, "").WithSite(id)
}

// Resolve returns the name of the entry that would decide site, if any.
func (d *Dispatcher) Resolve(site Site) (string, bool) {
	for _, pos := range d.registry.candidates(site.Identity()) {
		if e := d.registry.entries[pos]; e.matches(site) {
			return fmt.Sprintf("#%d %s", pos, e.Name), true
		}
	}
	return "", false
}
