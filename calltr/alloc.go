package calltr

import (
	"sync"
	"sync/atomic"

	"github.com/sipwatch/dialogtrack/sipmsg"
)

// StatCounter is an atomically-updated 64-bit counter, adapted from the
// teacher's allocator stats (calltr/alloc.go's StatCounter). Only Inc/Get
// survive here -- every counter in AllocStats is monotonic (a running total
// of allocations or frees, exactly what a Prometheus counter wants), so the
// teacher's Dec has no caller left once TotalSize/Sizes (the one-block
// allocator's per-size-bucket bookkeeping) are gone.
type StatCounter uint64

func (c *StatCounter) Inc(v uint64) uint64 {
	return atomic.AddUint64((*uint64)(c), v)
}

func (c *StatCounter) Get() uint64 {
	return atomic.LoadUint64((*uint64)(c))
}

// AllocStats tracks allocator activity (§5): how many Calls and Messages
// have been handed out, freed, and how many allocation attempts failed
// (a full pool, or an exhausted budget, reported as (nil, false) rather
// than a panic -- §7).
type AllocStats struct {
	NewCalls  StatCounter
	FreeCalls StatCounter

	NewMessages  StatCounter
	FreeMessages StatCounter

	Failures StatCounter
}

// Allocator is the injectable allocation strategy (§5's design note:
// allocation is a constructor parameter, not a package-global policy) a
// Call obtains its own storage and its Messages' storage through. This
// lets an embedding process choose a pool sized to its traffic volume, or
// swap in a bounded allocator that starts returning nil once a memory
// budget is hit, without calltr itself knowing about budgets.
type Allocator interface {
	NewCall() *Call
	FreeCall(*Call)
	NewMessage() *Message
	FreeMessage(*Message)
	Stats() AllocStats
}

// poolAllocator is a sync.Pool-backed Allocator, adapted from the
// teacher's sync.Pool allocator (calltr/alloc_pool.go) but without its
// size-banded buffer pooling -- Call and Message here are plain Go
// structs with slice fields, not single flat byte buffers, so there is no
// equivalent "key+info in one block" layout to replicate; pooling the
// structs themselves is enough to avoid the teacher's unsafe-pointer
// single-block variant entirely (dropped, see DESIGN.md).
type poolAllocator struct {
	calls    sync.Pool
	messages sync.Pool
	stats    AllocStats
}

// NewPoolAllocator returns an Allocator that recycles Call and Message
// values via sync.Pool. It never fails allocation (Failures stays 0);
// embedders wanting a hard budget should wrap or replace it.
func NewPoolAllocator() Allocator {
	a := &poolAllocator{}
	a.calls.New = func() any { return &Call{} }
	a.messages.New = func() any { return &Message{} }
	return a
}

func (a *poolAllocator) NewCall() *Call {
	c := a.calls.Get().(*Call)
	*c = Call{}
	a.stats.NewCalls.Inc(1)
	return c
}

func (a *poolAllocator) FreeCall(c *Call) {
	if c == nil {
		return
	}
	a.stats.FreeCalls.Inc(1)
	a.calls.Put(c)
}

func (a *poolAllocator) NewMessage() *Message {
	m := a.messages.Get().(*Message)
	*m = Message{}
	a.stats.NewMessages.Inc(1)
	return m
}

func (a *poolAllocator) FreeMessage(m *Message) {
	if m == nil {
		return
	}
	a.stats.FreeMessages.Inc(1)
	a.messages.Put(m)
}

func (a *poolAllocator) Stats() AllocStats {
	return AllocStats{
		NewCalls:     StatCounter(a.stats.NewCalls.Get()),
		FreeCalls:    StatCounter(a.stats.FreeCalls.Get()),
		NewMessages:  StatCounter(a.stats.NewMessages.Get()),
		FreeMessages: StatCounter(a.stats.FreeMessages.Get()),
		Failures:     StatCounter(a.stats.Failures.Get()),
	}
}

// DefaultAllocator is used by New and NewWrappedMessage when a Config
// doesn't specify one.
var DefaultAllocator = NewPoolAllocator()

// NewWrappedMessage allocates a Message through the given allocator
// (falling back to DefaultAllocator when nil) and sets its embedded
// sipmsg.Message to view. With the pool allocator it never fails; if a
// bounded Allocator returns nil, NewWrappedMessage returns nil rather than
// panicking (§7).
func NewWrappedMessage(a Allocator, view sipmsg.Message) *Message {
	if a == nil {
		a = DefaultAllocator
	}
	m := a.NewMessage()
	if m == nil {
		return nil
	}
	m.Message = view
	return m
}
