package transfer

// WriteItem is either an IORequest or an IOCloseRequest, the two events the
// Writer goroutine consumes from the bounded write channel.
type WriteItem interface {
	isWriteItem()
}

// IORequest is a positioned write: dest+offset for file destinations, or
// Data written directly to the stream sink when IsStream is set.
type IORequest struct {
	Dest     string
	Offset   int64
	Data     []byte
	IsStream bool
}

func (IORequest) isWriteItem() {}

// IOCloseRequest signals the final IO event for dest: the Writer flushes
// and closes its handle, guaranteeing every prior write for dest already
// landed. A no-op for stream destinations, which never have a handle.
type IOCloseRequest struct {
	Dest string
}

func (IOCloseRequest) isWriteItem() {}

// PrintTask is an immutable progress or error message bound for the
// Printer's result channel.
type PrintTask struct {
	Message    string
	Error      bool
	Warning    bool
	TotalParts *int
}
