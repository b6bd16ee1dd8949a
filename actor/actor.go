/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package actor

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	gerrors "github.com/ownport/goactors/errors"
	"github.com/ownport/goactors/internal/sharedflag"
	"github.com/ownport/goactors/internal/validation"
	"github.com/ownport/goactors/internal/xsync"
	"github.com/ownport/goactors/log"
	"github.com/ownport/goactors/mailbox"
	"github.com/ownport/goactors/mailbox/bolt"
	"github.com/ownport/goactors/message"
	"github.com/ownport/goactors/telemetry"
)

// DefaultIdleInterval is the sleep between mailbox polls of a waiting actor.
const DefaultIdleInterval = 10 * time.Millisecond

// Actor is a unit of computation owning a mailbox and a set of children.
//
// An actor combines an execution Family with an optional Behavior. Without
// behavior the actor only supervises its children. The family decides who
// drives the actor: cooperative families advance when RunOnce is called,
// by their own Run loop or by a supervising parent, while os-thread and
// os-process actors drive themselves once started and are only observed
// through their flags.
type Actor struct {
	address      string
	name         string
	kind         string
	family       Family
	behavior     Behavior
	logger       log.Logger
	inbox        mailbox.Mailbox
	allowParent  bool
	idleInterval time.Duration
	telemetry    *telemetry.Telemetry
	processEnv   []string

	treeMu   sync.RWMutex
	parent   *Actor
	children *xsync.List[*Actor]

	processing flag
	waiting    flag
	flagFile   *sharedflag.File
	started    *atomic.Bool

	// stepMu serializes the drivers of the cooperative state below.
	stepMu         sync.Mutex
	processingLoop continuation
	superviseLoop  continuation

	// message cycle state, owned by the goroutine running the cycle
	current message.Message
	steps   []string

	// upstream is the parent inbox seen from inside an os-process child
	upstream mailbox.Mailbox

	hasUnit *atomic.Bool
	done    chan struct{}
	unitErr error
	cmd     *exec.Cmd
}

// New creates an actor. A nil behavior gives a plain supervisor.
func New(behavior Behavior, opts ...Option) (*Actor, error) {
	a := &Actor{
		address:      newAddress(),
		name:         typeName(behavior),
		kind:         KindOf(behavior),
		behavior:     behavior,
		logger:       log.DefaultLogger,
		idleInterval: DefaultIdleInterval,
		children:     xsync.NewList[*Actor](),
		started:      atomic.NewBool(false),
		hasUnit:      atomic.NewBool(false),
		done:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt.Apply(a)
	}

	chain := validation.New().
		AddAssertion(a.family == unsetFamily || a.family.IsValid(), fmt.Errorf("%w: %d", gerrors.ErrInvalidFamily, int(a.family))).
		AddAssertion(a.logger != nil, fmt.Errorf("the [logger] is required")).
		AddValidator(validation.NewPositiveDurationValidator("idle interval", a.idleInterval))
	if a.family == OSProcess {
		_, shareable := a.inbox.(mailbox.Locator)
		chain.AddAssertion(a.inbox == nil || shareable, gerrors.ErrNotShareable).
			AddAssertion(behavior != nil, gerrors.NewErrBehaviorNotRegistered(plainKind))
	}
	if err := chain.Validate(); err != nil {
		return nil, err
	}

	if a.telemetry == nil {
		tel, err := telemetry.New()
		if err != nil {
			return nil, err
		}
		a.telemetry = tel
	}

	if err := a.setup(); err != nil {
		return nil, err
	}

	a.logger = a.logger.With("actor", a.name, "address", a.address, "family", a.family.String())
	return a, nil
}

// setup creates the family flags and the default inbox
func (a *Actor) setup() error {
	if a.family != OSProcess {
		a.processing, a.waiting = newLocalFlags()
		// pipeline hops put from the sender goroutine, whatever its family
		if a.inbox == nil {
			a.inbox = mailbox.NewQueue()
		}
		return nil
	}

	file, err := sharedflag.Create(flagCount)
	if err != nil {
		return err
	}
	if a.inbox == nil {
		inbox, err := bolt.NewTemp()
		if err != nil {
			_ = file.Close()
			return err
		}
		a.inbox = inbox
	}
	a.flagFile = file
	a.processing, a.waiting = newSharedFlags(file)
	return nil
}

// newAddress returns 128 random bits in hex form
func newAddress() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// Address returns the unique address of the actor.
func (a *Actor) Address() string {
	return a.address
}

// Name returns the display name of the actor.
func (a *Actor) Name() string {
	return a.name
}

// Kind returns the pipeline kind of the actor.
func (a *Actor) Kind() string {
	return a.kind
}

// Behavior returns the actor behavior, nil for plain supervisors.
func (a *Actor) Behavior() Behavior {
	return a.behavior
}

// Family returns the execution family.
func (a *Actor) Family() (Family, error) {
	if a.family == unsetFamily {
		return unsetFamily, fmt.Errorf("%w: %s", gerrors.ErrFamilyNotSet, a.name)
	}
	return a.family, nil
}

// Processing reports whether the actor is logically running.
func (a *Actor) Processing() bool {
	return a.processing.Load()
}

// Waiting reports whether the actor idles between mailbox polls.
func (a *Actor) Waiting() bool {
	return a.waiting.Load()
}

// Inbox returns the actor mailbox.
func (a *Actor) Inbox() mailbox.Mailbox {
	return a.inbox
}

// Logger returns the actor logger.
func (a *Actor) Logger() log.Logger {
	return a.logger
}

// Tell puts a message into the actor mailbox.
func (a *Actor) Tell(ctx context.Context, msg message.Message) error {
	return a.inbox.Put(ctx, msg)
}

// String returns name[address].
func (a *Actor) String() string {
	return fmt.Sprintf("%s[%s]", a.name, a.address)
}

// Parent returns the parent actor, nil for a root.
func (a *Actor) Parent() *Actor {
	a.treeMu.RLock()
	defer a.treeMu.RUnlock()
	return a.parent
}

// Children returns the children in insertion order.
func (a *Actor) Children() []*Actor {
	return a.children.Items()
}

// AddChild attaches child to the actor.
func (a *Actor) AddChild(child *Actor) error {
	if a.family == OSProcess {
		return gerrors.ErrProcessSupervisor
	}
	if child == nil || child == a {
		return errors.New("actor: invalid child")
	}

	a.treeMu.Lock()
	defer a.treeMu.Unlock()

	if a.children.Contains(child) {
		return fmt.Errorf("%w: %s", gerrors.ErrDuplicateChild, child)
	}

	child.treeMu.Lock()
	defer child.treeMu.Unlock()
	if child.parent != nil {
		return fmt.Errorf("%w: %s", gerrors.ErrChildHasParent, child)
	}

	child.parent = a
	a.children.Append(child)
	return nil
}

// RemoveChild detaches the child with the given address. The child is not
// stopped.
func (a *Actor) RemoveChild(address string) error {
	a.treeMu.Lock()
	defer a.treeMu.Unlock()

	for _, child := range a.children.Items() {
		if child.address != address {
			continue
		}
		a.children.Remove(child)
		child.treeMu.Lock()
		child.parent = nil
		child.treeMu.Unlock()
		return nil
	}
	return fmt.Errorf("%w: address=%s", gerrors.ErrChildNotFound, address)
}

// parentInbox is where Send and Error forward to: the parent mailbox, or the
// upstream mailbox inside an os-process child.
func (a *Actor) parentInbox() mailbox.Mailbox {
	if parent := a.Parent(); parent != nil {
		return parent.inbox
	}
	return a.upstream
}

// subtree returns the actor and all its descendants, parents first
func (a *Actor) subtree() []*Actor {
	out := []*Actor{a}
	for _, child := range a.children.Items() {
		out = append(out, child.subtree()...)
	}
	return out
}
