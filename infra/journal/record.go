package journal

// RecordType tags what kind of engine event a record replays into.
type RecordType byte

const (
	RecordSubmit  RecordType = 1
	RecordCancel  RecordType = 2
	RecordReplace RecordType = 3
)

// Record is one accepted event. Time is the wall-clock nanos the event
// was journaled at, Data the event payload encoded by
// EncodeSubmit/EncodeCancel/EncodeReplace.
//
// Seq is the engine's sequence high-water mark when the record was
// written, not a per-record counter. Submits carry the sequence assigned
// at acceptance; cancels, and replaces that reduce size in place, consume
// no sequence of their own and repeat the previous high-water mark. Replay
// ignores Seq entirely (record order alone drives it); it exists for
// diagnostics, where it names the engine state the event applied to rather
// than the record itself.
type Record struct {
	Type RecordType
	Seq  uint64
	Time int64
	Data []byte
}
