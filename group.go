package activestate

import (
	"errors"
	"sort"
	"sync"
)

// ErrRouterMismatch is returned when a matcher from another router is bound into a group tree.
var ErrRouterMismatch = errors.New("group tree already follows a different router")

// Group aggregates the activation of its members: it is active while any member is.
// Groups nest; a child group counts as one member of its parent.
//
// Members are either manual registrations that Report their own state, or matchers
// attached with Bind. Bound matchers that flip during a transition are settled together
// once the transition's success hooks have run, so a transition that moves activation
// from one member to another does not produce an intermediate notification.
// A group tree follows a single router.
type Group struct {
	class  string
	parent *Group
	regID  uint64 // member id in parent

	mu        sync.Mutex
	nextID    uint64
	members   map[uint64]*member
	active    bool
	router    Router         // root only
	roundStop DeregisterFunc // root only

	observers HookRegistry[bool]
}

type member struct {
	active  bool
	matcher *Matcher
	child   *Group
}

// NewGroup returns a root group. class is the label applied while the group is active.
func NewGroup(class string) *Group {
	return &Group{
		class:   class,
		members: make(map[uint64]*member),
	}
}

// Child creates a nested group that reports into g.
func (g *Group) Child(class string) *Group {
	c := NewGroup(class)
	c.parent = g
	g.mu.Lock()
	g.nextID++
	c.regID = g.nextID
	g.members[c.regID] = &member{child: c}
	g.mu.Unlock()
	return c
}

// Detach removes a nested group from its parent. Root groups ignore it.
func (g *Group) Detach() {
	if g.parent != nil {
		g.parent.update(g.regID, false, true)
	}
}

// Close stops a root group from settling on transitions and releases its router.
// Members keep their last state.
func (g *Group) Close() {
	g.mu.Lock()
	stop := g.roundStop
	g.roundStop = nil
	g.router = nil
	g.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Class returns the group's label.
func (g *Group) Class() string { return g.class }

// Parent returns the enclosing group, or nil for a root.
func (g *Group) Parent() *Group { return g.parent }

// Active returns the current aggregate.
func (g *Group) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Len returns the number of members, nested groups included.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.members)
}

// OnChange registers fn to be called when the aggregate flips.
func (g *Group) OnChange(fn func(active bool)) DeregisterFunc {
	return g.observers.Add(fn)
}

// Classes returns the labels of every active group from the outermost ancestor down to g.
// Groups with an empty label are skipped.
func (g *Group) Classes() []string {
	var chain []*Group
	for cur := g; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	var classes []string
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].class != "" && chain[i].Active() {
			classes = append(classes, chain[i].class)
		}
	}
	return classes
}

// Register adds an inactive member and returns its handle.
func (g *Group) Register() *Registration {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	g.members[g.nextID] = &member{}
	return &Registration{group: g, id: g.nextID}
}

// Bind adds m as a member that follows m's result.
// The first bound matcher ties the whole group tree to its router; matchers from
// any other router are refused with ErrRouterMismatch.
// The returned function removes the member. Safe to call repeatedly.
func (g *Group) Bind(m *Matcher) (DeregisterFunc, error) {
	if err := g.root().watch(m.router); err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.nextID++
	id := g.nextID
	g.members[id] = &member{matcher: m}
	g.mu.Unlock()

	stop := m.OnChange(func(active bool) {
		if m.inTransition() {
			return
		}
		g.update(id, active, false)
	})
	g.update(id, m.Active(), false)

	var once sync.Once
	return func() {
		once.Do(func() {
			stop()
			g.update(id, false, true)
		})
	}, nil
}

func (g *Group) root() *Group {
	cur := g
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// watch (re)subscribes the root to transition success. Re-subscribing on every Bind keeps
// the settle hook behind the hooks of every bound matcher.
func (g *Group) watch(r Router) error {
	g.mu.Lock()
	if g.router != nil && g.router != r {
		g.mu.Unlock()
		return ErrRouterMismatch
	}
	g.router = r
	stop := g.roundStop
	g.roundStop = nil
	g.mu.Unlock()
	if stop != nil {
		stop()
	}

	stop = r.OnSuccess(func(TransitionResult) { g.settle() })
	g.mu.Lock()
	g.roundStop = stop
	g.mu.Unlock()
	return nil
}

// settle recomputes the subtree bottom-up from the live state of bound matchers, then
// notifies every group that flipped, parents before children, so observers always see
// settled ancestors.
func (g *Group) settle() {
	flipped := make(map[*Group]bool)
	g.recompute(flipped)
	g.notify(flipped)
}

func (g *Group) recompute(flipped map[*Group]bool) {
	for _, c := range g.children() {
		c.recompute(flipped)
	}

	g.mu.Lock()
	for _, mem := range g.members {
		switch {
		case mem.child != nil:
			mem.active = mem.child.Active()
		case mem.matcher != nil:
			mem.active = mem.matcher.Active()
		}
	}
	next := g.anyActive()
	if next != g.active {
		flipped[g] = next
	}
	g.active = next
	g.mu.Unlock()
}

func (g *Group) notify(flipped map[*Group]bool) {
	if active, ok := flipped[g]; ok {
		g.observers.Fire(active)
	}
	for _, c := range g.children() {
		c.notify(flipped)
	}
}

// children returns nested groups in creation order.
func (g *Group) children() []*Group {
	g.mu.Lock()
	defer g.mu.Unlock()
	var ids []uint64
	for id, mem := range g.members {
		if mem.child != nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*Group, len(ids))
	for i, id := range ids {
		out[i] = g.members[id].child
	}
	return out
}

func (g *Group) update(id uint64, active bool, remove bool) {
	g.mu.Lock()
	mem, ok := g.members[id]
	if !ok {
		g.mu.Unlock()
		return
	}
	if remove {
		delete(g.members, id)
	} else {
		mem.active = active
	}
	next := g.anyActive()
	changed := next != g.active
	g.active = next
	g.mu.Unlock()

	if !changed {
		return
	}
	if g.parent != nil {
		g.parent.update(g.regID, next, false)
	}
	g.observers.Fire(next)
}

func (g *Group) anyActive() bool {
	for _, mem := range g.members {
		if mem.active {
			return true
		}
	}
	return false
}

// Registration is a manual member's handle into a Group.
type Registration struct {
	group *Group
	id    uint64
}

// Report records the member's activation. Reports after Remove are ignored.
func (r *Registration) Report(active bool) {
	r.group.update(r.id, active, false)
}

// Remove drops the member and re-evaluates the group. Safe to call repeatedly.
func (r *Registration) Remove() {
	r.group.update(r.id, false, true)
}
