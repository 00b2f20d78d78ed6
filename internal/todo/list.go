package todo

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
)

// Saver receives a full snapshot of the list after every change. Save must
// not block the caller.
type Saver interface {
	Save(items []Item)
}

// List owns the canonical task list and the filtered view derived from it.
// It is not safe for concurrent use; callers drive it from one goroutine.
type List struct {
	items   []Item
	filter  Filter
	view    []Item
	loading bool
	draft   string

	saver  Saver
	logger *log.Logger
	now    func() time.Time
}

func NewList(mode Filter, saver Saver, logger *log.Logger) *List {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if _, err := ParseFilter(string(mode)); err != nil {
		mode = FilterAll
	}
	l := &List{
		filter: mode,
		saver:  saver,
		logger: logger,
		now:    time.Now,
	}
	l.refresh()
	return l
}

func (l *List) Items() []Item     { return slices.Clone(l.items) }
func (l *List) View() []Item      { return slices.Clone(l.view) }
func (l *List) Filter() Filter    { return l.filter }
func (l *List) Loading() bool     { return l.loading }
func (l *List) Draft() string     { return l.draft }
func (l *List) SetDraft(s string) { l.draft = s }

func (l *List) ActiveCount() int {
	return len(Apply(FilterActive, l.items))
}

// lookup returns the item stored under key.
func (l *List) lookup(key int64) (Item, bool) {
	if i := l.index(key); i >= 0 {
		return l.items[i], true
	}
	return Item{}, false
}

func (l *List) BeginLoad() {
	l.loading = true
}

// Loaded installs the result of a load. A failed load is logged and leaves
// the current list in place. Loading is cleared either way.
func (l *List) Loaded(items []Item, err error) {
	defer func() { l.loading = false }()
	if err != nil {
		l.logger.Error("load items failed", "err", err)
		return
	}
	l.items = slices.Clone(items)
	l.refresh()
	l.logger.Debug("items loaded", "count", len(l.items))
}

// Add appends the current draft as a new incomplete item and clears the
// draft. An empty draft is ignored.
func (l *List) Add() (Item, bool) {
	if l.draft == "" {
		return Item{}, false
	}
	it := Item{Key: l.nextKey(), Text: l.draft}
	next := make([]Item, len(l.items), len(l.items)+1)
	copy(next, l.items)
	l.commit(append(next, it))
	l.draft = ""
	return it, true
}

// ToggleAll marks every item complete, or every item incomplete when all of
// them already are.
func (l *List) ToggleAll() {
	target := !allComplete(l.items)
	next := make([]Item, len(l.items))
	for i, it := range l.items {
		it.Complete = target
		next[i] = it
	}
	l.commit(next)
}

func (l *List) SetComplete(key int64, complete bool) bool {
	return l.replace(key, func(it *Item) { it.Complete = complete })
}

func (l *List) SetEditing(key int64, editing bool) bool {
	return l.replace(key, func(it *Item) { it.Editing = editing })
}

func (l *List) UpdateText(key int64, text string) bool {
	return l.replace(key, func(it *Item) { it.Text = text })
}

func (l *List) Remove(key int64) bool {
	i := l.index(key)
	if i < 0 {
		return false
	}
	l.commit(slices.Concat(l.items[:i], l.items[i+1:]))
	return true
}

func (l *List) SetFilter(mode Filter) {
	l.filter = mode
	l.refresh()
}

func (l *List) ClearCompleted() {
	l.commit(Apply(FilterActive, l.items))
}

func (l *List) replace(key int64, edit func(*Item)) bool {
	i := l.index(key)
	if i < 0 {
		l.logger.Debug("item not found", "key", key)
		return false
	}
	next := slices.Clone(l.items)
	edit(&next[i])
	l.commit(next)
	return true
}

func (l *List) commit(next []Item) {
	l.items = next
	l.refresh()
	if l.saver != nil {
		l.saver.Save(slices.Clone(next))
	}
}

func (l *List) refresh() {
	l.view = Apply(l.filter, l.items)
}

func (l *List) index(key int64) int {
	return slices.IndexFunc(l.items, func(it Item) bool { return it.Key == key })
}

// nextKey uses the wall clock in milliseconds, bumped past the largest key in
// use so two adds in the same millisecond stay distinct.
func (l *List) nextKey() int64 {
	key := l.now().UnixMilli()
	for _, it := range l.items {
		if it.Key >= key {
			key = it.Key + 1
		}
	}
	return key
}

func allComplete(items []Item) bool {
	for _, it := range items {
		if !it.Complete {
			return false
		}
	}
	return true
}
