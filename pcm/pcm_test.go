package pcm

import "testing"

func TestEncodeLittleEndian(t *testing.T) {
	b := Block{Samples: []int16{1, -1, 32767, -32768}}
	got := b.Encode()
	want := []byte{0x01, 0x00, 0xff, 0xff, 0xff, 0x7f, 0x00, 0x80}
	if len(got) != len(want) {
		t.Fatalf("Encode() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestSinkFuncAdaptsPlainFunction(t *testing.T) {
	var received Block
	sink := SinkFunc(func(block Block) error {
		received = block
		return nil
	})

	var s Sink = sink
	in := Block{Samples: []int16{5, 6, 7}}
	if err := s.OnPCM(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received.Samples) != 3 || received.Samples[1] != 6 {
		t.Errorf("sink did not receive block: %+v", received)
	}
}
