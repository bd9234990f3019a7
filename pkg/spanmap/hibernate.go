package spanmap

import (
	"bytes"
	"cmp"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/spanlib/pkg/safeconv"
)

// ErrPriorityRange is returned by Hibernate when an entry's priority or
// bounds do not fit the 32-bit snapshot columns.
var ErrPriorityRange = errors.New("entry outside snapshot range")

// Snapshot is a compacted columnar copy of a map's contents: lower
// bounds (delta-encoded), lengths and priorities as LZ4-compressed
// uint32 columns, values as an LZ4-compressed gob stream. A hibernated
// map takes a fraction of the live tree's memory; Boot restores it.
// Snapshots live in memory only and carry no durability guarantees.
type Snapshot struct {
	count     int
	next      int
	lo        column
	length    column
	priority  column
	values    column
	valuesLen int
}

// Count returns the number of entries captured in the snapshot.
func (s *Snapshot) Count() int {
	return s.count
}

// CompressedSize returns the total size of the snapshot payload in
// bytes.
func (s *Snapshot) CompressedSize() int {
	return len(s.lo.data) + len(s.length.data) + len(s.priority.data) + len(s.values.data)
}

// Hibernate flattens the map into a Snapshot. The map itself is
// unchanged; drop the original reference to release the tree. The
// columns are deinterleaved before compression for a better ratio.
func (m Map[V]) Hibernate() (*Snapshot, error) {
	segs := m.Segments()

	los := make([]uint32, len(segs))
	lengths := make([]uint32, len(segs))
	priorities := make([]uint32, len(segs))
	values := make([]V, len(segs))

	for i, s := range segs {
		if s.Priority < 0 || uint64(s.Hi) > uint64(safeconv.MaxUint32) || uint64(s.Priority) > uint64(safeconv.MaxUint32) {
			return nil, fmt.Errorf("%w: [%d, %d) at priority %d", ErrPriorityRange, s.Lo, s.Hi, s.Priority)
		}

		los[i] = safeconv.MustIntToUint32(s.Lo)
		lengths[i] = safeconv.MustIntToUint32(s.Hi - s.Lo)
		priorities[i] = safeconv.MustIntToUint32(s.Priority)
		values[i] = s.Value
	}

	// Segments arrive sorted by lower bound; deltas compress well.
	deltaEncodeUint32(los)

	loCol, loErr := compressUint32Column(los)
	if loErr != nil {
		return nil, loErr
	}

	lengthCol, lengthErr := compressUint32Column(lengths)
	if lengthErr != nil {
		return nil, lengthErr
	}

	priorityCol, priorityErr := compressUint32Column(priorities)
	if priorityErr != nil {
		return nil, priorityErr
	}

	valueBuf := new(bytes.Buffer)

	gobErr := gob.NewEncoder(valueBuf).Encode(values)
	if gobErr != nil {
		return nil, fmt.Errorf("encode values: %w", gobErr)
	}

	return &Snapshot{
		count:     len(segs),
		next:      m.next,
		lo:        loCol,
		length:    lengthCol,
		priority:  priorityCol,
		values:    compressBytes(valueBuf.Bytes()),
		valuesLen: valueBuf.Len(),
	}, nil
}

// Boot rebuilds a live map from a snapshot. The value type parameter
// must match the one the snapshot was taken with.
func Boot[V cmp.Ordered](s *Snapshot) (Map[V], error) {
	los := make([]uint32, s.count)
	lengths := make([]uint32, s.count)
	priorities := make([]uint32, s.count)

	if err := decompressUint32Column(s.lo, los); err != nil {
		return Map[V]{}, err
	}

	if err := decompressUint32Column(s.length, lengths); err != nil {
		return Map[V]{}, err
	}

	if err := decompressUint32Column(s.priority, priorities); err != nil {
		return Map[V]{}, err
	}

	deltaDecodeUint32(los)

	valueBytes, valueErr := decompressBytes(s.values, s.valuesLen)
	if valueErr != nil {
		return Map[V]{}, valueErr
	}

	var values []V

	gobErr := gob.NewDecoder(bytes.NewReader(valueBytes)).Decode(&values)
	if gobErr != nil {
		return Map[V]{}, fmt.Errorf("%w: decode values: %w", ErrCorruptSnapshot, gobErr)
	}

	if len(values) != s.count {
		return Map[V]{}, fmt.Errorf("%w: %d values for %d entries", ErrCorruptSnapshot, len(values), s.count)
	}

	segs := make([]Segment[V], s.count)
	for i := range segs {
		lo := safeconv.MustUint32ToInt(los[i])
		segs[i] = Segment[V]{
			Lo:       lo,
			Hi:       lo + safeconv.MustUint32ToInt(lengths[i]),
			Priority: safeconv.MustUint32ToInt(priorities[i]),
			Value:    values[i],
		}
	}

	m, err := FromSegments(segs)
	if err != nil {
		return Map[V]{}, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	m.next = max(m.next, s.next)

	return m, nil
}
