package s3

type segmentKind int

const (
	// segmentCopy is a range of the current remote object
	segmentCopy segmentKind = iota
	// segmentZero is a run of zero bytes filling a gap
	segmentZero
	// segmentData is a range of the spool file
	segmentData
)

// segment is a run of bytes of the object being composed. offset is
// relative to the remote object for segmentCopy and to the spool file for
// segmentData.
type segment struct {
	kind   segmentKind
	offset int64
	size   int64
}

// part is one part of a multipart upload. A copy part is a single
// segmentCopy uploaded with UploadPartCopy, any other part is materialized
// into a temporary file first.
type part struct {
	pieces []segment
	size   int64
	copy   bool
}

// composeSegments lays out the object resulting from writing the range
// [start, end) into an object of the given size.
func composeSegments(size, start, end int64) (segments []segment) {
	if prefix := min(start, size); prefix > 0 {
		segments = append(segments, segment{kind: segmentCopy, offset: 0, size: prefix})
	}
	if start > size {
		segments = append(segments, segment{kind: segmentZero, offset: size, size: start - size})
	}
	if end > start {
		segments = append(segments, segment{kind: segmentData, offset: 0, size: end - start})
	}
	if size > end {
		segments = append(segments, segment{kind: segmentCopy, offset: end, size: size - end})
	}
	return
}

// planParts cuts segments into multipart upload parts. Copy ranges of at
// least minPartSize are copied server side in parts of at most maxPartSize.
// Everything else is grouped into materialized parts of preferredPartSize.
// Every part but the last is at least minPartSize long.
func planParts(segments []segment, minPartSize, preferredPartSize, maxPartSize int64) (parts []part) {
	var pending part
	for _, seg := range segments {
		for seg.size > 0 {
			if seg.kind == segmentCopy && pending.size == 0 && seg.size >= minPartSize {
				n := min(seg.size, maxPartSize)
				parts = append(parts, part{
					pieces: []segment{{kind: segmentCopy, offset: seg.offset, size: n}},
					size:   n,
					copy:   true,
				})
				seg.offset += n
				seg.size -= n
				continue
			}
			n := min(seg.size, preferredPartSize-pending.size)
			pending.pieces = append(pending.pieces, segment{kind: seg.kind, offset: seg.offset, size: n})
			pending.size += n
			seg.offset += n
			seg.size -= n
			if pending.size == preferredPartSize {
				parts = append(parts, pending)
				pending = part{}
			}
		}
	}
	if pending.size > 0 {
		parts = append(parts, pending)
	}
	return
}
