package mailbox

const (
	DefaultCapacity       = 1
	DefaultSignalPoolSize = 4
)

// Kind tells a notify envelope from a request envelope.
type Kind uint8

const (
	Notify Kind = iota
	Request
)

func (k Kind) String() string {
	switch k {
	case Notify:
		return "notify"
	case Request:
		return "request"
	default:
		return "unknown"
	}
}

// Envelope is one pending message. Reply is set only for requests.
type Envelope[M, R any] struct {
	Kind    Kind
	Message M
	Reply   *Signal[R]
}
