package graphcore

// ConnectorKind distinguishes the two closed connector variants. The set is
// closed at design time: new kinds are not meant to be added by node
// authors.
type ConnectorKind int

const (
	KindImage ConnectorKind = iota
	KindBuffer
)

func (k ConnectorKind) String() string {
	if k == KindBuffer {
		return "buffer"
	}
	return "image"
}

// InputDescriptor is what a node declares about one of its inputs: the
// semantic kind, the consumer stage/access/usage it will use the resource
// with, the image layout it requires, and how many iterations behind the
// producer it reads (Delay).
type InputDescriptor struct {
	Name   string
	Kind   ConnectorKind
	Stages PipelineStage
	Access AccessFlags

	// RequiredLayout is meaningful only when Kind == KindImage.
	RequiredLayout ImageLayout

	// ImageUsage and BufferUsage are the usage bits this sink requires of
	// the physical backing; exactly one is meaningful, selected by Kind.
	// alloc.Allocate unions every connected sink's bits into the producer's
	// own create-info before allocating, so a sink added after the producer
	// was written never finds its resource missing a usage it needs.
	ImageUsage  ImageUsage
	BufferUsage BufferUsage

	// Delay is 0 for a same-iteration read, >=1 for a feedback edge reading
	// a prior iteration's write.
	Delay int
}

// OutputDescriptor is what a node declares about one of its outputs: the
// physical create-info, whether it is exempt from aliasing and survives
// rebuilds (Persistent), and the producer-side stage/access it writes with.
type OutputDescriptor struct {
	Name string
	Kind ConnectorKind

	Image  ImageCreateInfo  // valid when Kind == KindImage
	Buffer BufferCreateInfo // valid when Kind == KindBuffer

	Persistent bool

	ProducerStages PipelineStage
	ProducerAccess AccessFlags

	// DebugName, if set, is forwarded to the allocator's CreateImage /
	// CreateBuffer `name` parameter. Defaults to "<node>.<output>".
	DebugName string
}
