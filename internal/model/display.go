package model

import (
	"fmt"
	"sort"
	"strings"
)

// FilterKind selects which predicate the view is built under.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterByTarget
	FilterBySearch
)

// Filter is the active view predicate.
type Filter struct {
	Kind   FilterKind
	Target string
	Search string
}

// SortKey selects how the view is ordered.
type SortKey int

const (
	SortSizeDesc SortKey = iota
	SortPathAsc
	SortAgeDesc
)

// Next cycles size -> path -> age -> size, used by the "cycle sort" key.
func (k SortKey) Next() SortKey {
	switch k {
	case SortSizeDesc:
		return SortPathAsc
	case SortPathAsc:
		return SortAgeDesc
	default:
		return SortSizeDesc
	}
}

// DisplayModel is the stable-index backing store plus the reorderable
// view built on top of it. It is intended to be owned and mutated by a
// single goroutine (the event loop); see spec §5.
type DisplayModel struct {
	results     []Result
	sizeState   []SizeState
	deleteState []DeleteState

	view   []int
	cursor int
	marks  map[int]bool

	filter        Filter
	sortKey       SortKey
	hideSensitive bool

	needsSort   bool
	needsFilter bool
}

// New returns an empty display model with the given initial sort key.
// Sensitive results are hidden from the view by default; see
// SetHideSensitive.
func New(sortKey SortKey) *DisplayModel {
	return &DisplayModel{
		marks:         make(map[int]bool),
		sortKey:       sortKey,
		hideSensitive: true,
	}
}

// SetHideSensitive controls whether results with Sensitive set are
// excluded from the view. It marks the view for rebuild.
func (m *DisplayModel) SetHideSensitive(hide bool) {
	m.hideSensitive = hide
	m.needsFilter = true
}

// HideSensitive reports the current sensitive-hiding setting.
func (m *DisplayModel) HideSensitive() bool {
	return m.hideSensitive
}

// Append assigns each candidate result the next stable index, appends it
// to the backing store with SizeState Pending and DeleteState Alive, and
// returns the assigned indices in the order given (batch insertion order
// is preserved). It marks the view for rebuild whenever at least one
// result is appended.
func (m *DisplayModel) Append(results ...Result) []int {
	ids := make([]int, 0, len(results))
	for _, r := range results {
		r.ID = len(m.results)
		m.results = append(m.results, r)
		m.sizeState = append(m.sizeState, SizeState{Kind: SizePending})
		m.deleteState = append(m.deleteState, DeleteState{Kind: DeleteAlive})
		ids = append(ids, r.ID)
	}
	if len(results) > 0 {
		m.needsFilter = true
	}
	return ids
}

// Len returns the number of results ever appended (including deleted
// ones, which are never physically removed).
func (m *DisplayModel) Len() int {
	return len(m.results)
}

// Result returns the result at the given stable index.
func (m *DisplayModel) Result(id int) (Result, bool) {
	if id < 0 || id >= len(m.results) {
		return Result{}, false
	}
	return m.results[id], true
}

// SizeState returns the size state at the given stable index.
func (m *DisplayModel) SizeState(id int) SizeState {
	if id < 0 || id >= len(m.sizeState) {
		return SizeState{}
	}
	return m.sizeState[id]
}

// DeleteState returns the delete state at the given stable index.
func (m *DisplayModel) DeleteState(id int) DeleteState {
	if id < 0 || id >= len(m.deleteState) {
		return DeleteState{}
	}
	return m.deleteState[id]
}

// ErrInvalidIndex is returned by state-mutating methods given an
// out-of-range stable index.
var ErrInvalidIndex = fmt.Errorf("model: invalid stable index")

// ErrNonMonotonic is returned when a size-state update would move a
// result's SizeState backwards (e.g. Ready -> Pending).
var ErrNonMonotonic = fmt.Errorf("model: non-monotonic size transition")

// UpdateSize applies a size-computation completion to the result at idx.
// It rejects transitions that would violate the monotonic ordering
// Pending -> Computing -> {Ready, Failed}.
func (m *DisplayModel) UpdateSize(idx int, next SizeState) error {
	if idx < 0 || idx >= len(m.sizeState) {
		return ErrInvalidIndex
	}
	cur := m.sizeState[idx]
	if !canTransition(cur.Kind, next.Kind) {
		return ErrNonMonotonic
	}
	m.sizeState[idx] = next
	if m.sortKey == SortSizeDesc && m.inView(idx) {
		m.needsSort = true
	}
	return nil
}

func (m *DisplayModel) inView(idx int) bool {
	for _, v := range m.view {
		if v == idx {
			return true
		}
	}
	return false
}

// SetFilter installs a new filter and marks the view for rebuild.
func (m *DisplayModel) SetFilter(f Filter) {
	m.filter = f
	m.needsFilter = true
}

// Filter returns the active filter.
func (m *DisplayModel) Filter() Filter {
	return m.filter
}

// SetSort installs a new sort key and marks the view for re-sort.
func (m *DisplayModel) SetSort(k SortKey) {
	m.sortKey = k
	m.needsSort = true
}

// SortKey returns the active sort key.
func (m *DisplayModel) SortKey() SortKey {
	return m.sortKey
}

// CycleSort advances to the next sort key in the size -> path -> age
// cycle.
func (m *DisplayModel) CycleSort() {
	m.SetSort(m.sortKey.Next())
}

// NeedsRebuild reports whether a filter rebuild or re-sort is pending.
func (m *DisplayModel) NeedsRebuild() bool {
	return m.needsFilter || m.needsSort
}

// Rebuild applies any pending filter rebuild, then any pending re-sort,
// then clamps the cursor, preserving the previously selected stable
// index when it survives the rebuild. It is a no-op unless needsFilter
// or needsSort is set, and is meant to be called at most once per tick.
func (m *DisplayModel) Rebuild() {
	if !m.needsFilter && !m.needsSort {
		return
	}

	var selected int
	hadSelection := len(m.view) > 0
	if hadSelection {
		selected = m.view[m.cursor]
	}

	if m.needsFilter {
		m.rebuildView()
		m.needsFilter = false
		m.needsSort = true // a freshly rebuilt view is always unsorted
	}
	if m.needsSort {
		m.sortView()
		m.needsSort = false
	}

	m.clampCursor(selected, hadSelection)
}

func (m *DisplayModel) rebuildView() {
	view := make([]int, 0, len(m.results))
	for idx, r := range m.results {
		if m.deleteState[idx].Kind == DeleteDeleted {
			continue
		}
		if !m.passesFilter(r) {
			continue
		}
		view = append(view, idx)
	}
	m.view = view
}

func (m *DisplayModel) passesFilter(r Result) bool {
	if m.hideSensitive && r.Sensitive {
		return false
	}
	switch m.filter.Kind {
	case FilterByTarget:
		return r.Target == m.filter.Target
	case FilterBySearch:
		return strings.Contains(r.Path, m.filter.Search)
	default:
		return true
	}
}

func (m *DisplayModel) sortView() {
	switch m.sortKey {
	case SortSizeDesc:
		sort.SliceStable(m.view, func(i, j int) bool {
			a, b := m.view[i], m.view[j]
			sa, sb := m.sizeState[a], m.sizeState[b]
			if sa.Kind == SizeReady && sb.Kind == SizeReady {
				return sa.Bytes > sb.Bytes
			}
			if sa.Kind == SizeReady {
				return true
			}
			if sb.Kind == SizeReady {
				return false
			}
			return a < b
		})
	case SortPathAsc:
		sort.SliceStable(m.view, func(i, j int) bool {
			return m.results[m.view[i]].Path < m.results[m.view[j]].Path
		})
	case SortAgeDesc:
		sort.SliceStable(m.view, func(i, j int) bool {
			return m.results[m.view[i]].ModTime.Before(m.results[m.view[j]].ModTime)
		})
	}
}

func (m *DisplayModel) clampCursor(prevSelected int, hadSelection bool) {
	if len(m.view) == 0 {
		m.cursor = 0
		return
	}
	if !hadSelection {
		if m.cursor >= len(m.view) {
			m.cursor = len(m.view) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return
	}
	for pos, idx := range m.view {
		if idx == prevSelected {
			m.cursor = pos
			return
		}
	}
	// Previously selected row is gone; move to the closest smaller
	// position still in range.
	if m.cursor >= len(m.view) {
		m.cursor = len(m.view) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View returns the current ordered sequence of stable indices visible
// to the user. The returned slice is owned by the model and must not be
// mutated by the caller.
func (m *DisplayModel) View() []int {
	return m.view
}

// Cursor returns the current position within View().
func (m *DisplayModel) Cursor() int {
	return m.cursor
}

// CursorStableIndex resolves the cursor to a stable index, if any row is
// visible.
func (m *DisplayModel) CursorStableIndex() (int, bool) {
	if len(m.view) == 0 {
		return 0, false
	}
	if m.cursor < 0 || m.cursor >= len(m.view) {
		return 0, false
	}
	return m.view[m.cursor], true
}

// MoveCursor shifts the cursor by delta rows, clamped to the view
// bounds. A no-op on an empty view.
func (m *DisplayModel) MoveCursor(delta int) {
	if len(m.view) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.view) {
		m.cursor = len(m.view) - 1
	}
}

// ToggleMark flips the multi-select mark on the given stable index.
func (m *DisplayModel) ToggleMark(id int) {
	if m.marks[id] {
		delete(m.marks, id)
	} else {
		m.marks[id] = true
	}
}

// Marked reports whether id is currently marked.
func (m *DisplayModel) Marked(id int) bool {
	return m.marks[id]
}

// Marks returns the set of marked stable indices.
func (m *DisplayModel) Marks() []int {
	out := make([]int, 0, len(m.marks))
	for id := range m.marks {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// ClearMarks empties the mark set.
func (m *DisplayModel) ClearMarks() {
	m.marks = make(map[int]bool)
}

// MarkDeleting transitions a result into the Deleting delete state.
func (m *DisplayModel) MarkDeleting(id int) error {
	if id < 0 || id >= len(m.deleteState) {
		return ErrInvalidIndex
	}
	m.deleteState[id] = DeleteState{Kind: DeleteDeleting}
	return nil
}

// MarkDeleted transitions a result into the Deleted delete state and
// marks the view for rebuild so it drops out on the next tick.
func (m *DisplayModel) MarkDeleted(id int) error {
	if id < 0 || id >= len(m.deleteState) {
		return ErrInvalidIndex
	}
	m.deleteState[id] = DeleteState{Kind: DeleteDeleted}
	delete(m.marks, id)
	m.needsFilter = true
	return nil
}

// MarkDeleteFailed transitions a result into the DeleteFailed state,
// recording the reason. The result remains visible in the view.
func (m *DisplayModel) MarkDeleteFailed(id int, reason string) error {
	if id < 0 || id >= len(m.deleteState) {
		return ErrInvalidIndex
	}
	m.deleteState[id] = DeleteState{Kind: DeleteFailed, Reason: reason}
	return nil
}
