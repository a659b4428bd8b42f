package layers

// Transport is the closed union of transport-layer codecs. Consumers
// dispatch with a type switch over *TCPSegment, *UDPDatagram and
// *ICMPMessage; no other implementations exist.
type Transport interface {
	Encode() []byte
	Len() int
	String() string

	transportLayer()
}

func (*TCPSegment) transportLayer()  {}
func (*UDPDatagram) transportLayer() {}
func (*ICMPMessage) transportLayer() {}
