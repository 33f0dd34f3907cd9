package constile

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func sampleTile() *HeapTile {
	tile := NewHeapTile()
	tile.SetType(5)
	tile.SetWall(3)
	tile.SetLiquid(0)
	tile.SetSTileHeader(0x10)
	tile.SetBTileHeader(1)
	tile.SetBTileHeader2(0)
	tile.SetBTileHeader3(0)
	tile.SetFrameX(-16)
	tile.SetFrameY(32)
	return tile
}

func TestProviderDimensions(t *testing.T) {
	p := NewTileProvider(WorldSize{MaxTilesX: 8399, MaxTilesY: 2399})
	if p.Width() != 8400 || p.Height() != 2400 {
		t.Fatalf("dimensions = %dx%d, want 8400x2400", p.Width(), p.Height())
	}
	if p.Len() != 8400*2400 {
		t.Fatalf("Len = %d", p.Len())
	}
	if p.Allocated() {
		t.Fatal("provider allocated before first access")
	}
}

func TestSetTileCopiesFields(t *testing.T) {
	p := NewTileProvider(WorldSize{MaxTilesX: 9, MaxTilesY: 4})
	if err := p.SetTile(3, 2, sampleTile()); err != nil {
		t.Fatal(err)
	}

	ref, err := p.Ref(3, 2)
	if err != nil {
		t.Fatal(err)
	}

	want := TileData{Type: 5, Wall: 3, STileHeader: 0x10, BTileHeader: 1, FrameX: -16, FrameY: 32}
	if got := ref.Data(); got != want {
		t.Fatalf("tile (3, 2) = %+v, want %+v", got, want)
	}
}

func TestSetTileDoesNotRebind(t *testing.T) {
	p := NewTileProvider(WorldSize{MaxTilesX: 3, MaxTilesY: 3})
	src := sampleTile()
	if err := p.SetTile(1, 1, src); err != nil {
		t.Fatal(err)
	}

	// Later changes to the source must not show up in the grid.
	src.SetType(99)
	tile, _ := p.Tile(1, 1)
	if tile.Type() != 5 {
		t.Fatalf("grid follows source tile: type = %d", tile.Type())
	}

	// A ref from the same provider is a copy source too.
	other, _ := p.Ref(2, 2)
	if err := p.SetTile(2, 2, tile); err != nil {
		t.Fatal(err)
	}
	tile.SetWall(77)
	if other.Wall() != 3 {
		t.Fatalf("tile (2, 2) aliases (1, 1): wall = %d", other.Wall())
	}
}

func TestRoundTripAllFields(t *testing.T) {
	p := NewTileProvider(WorldSize{MaxTilesX: 15, MaxTilesY: 7})
	values := []TileData{
		{},
		{Type: math.MaxUint16, Wall: math.MaxUint16, Liquid: math.MaxUint8, STileHeader: math.MaxUint16,
			BTileHeader: math.MaxUint8, BTileHeader2: math.MaxUint8, BTileHeader3: math.MaxUint8,
			FrameX: math.MaxInt16, FrameY: math.MaxInt16},
		{FrameX: math.MinInt16, FrameY: math.MinInt16},
		{Type: 1, Wall: 256, Liquid: 128, STileHeader: 0x8001, BTileHeader: 0x80, BTileHeader2: 0x7f, BTileHeader3: 0x01, FrameX: -1, FrameY: 18},
	}

	for i, want := range values {
		for x := 0; x < p.Width(); x++ {
			for y := 0; y < p.Height(); y++ {
				ref, err := p.Ref(x, y)
				if err != nil {
					t.Fatal(err)
				}
				// Field by field through the setters.
				ref.SetType(want.Type)
				ref.SetWall(want.Wall)
				ref.SetLiquid(want.Liquid)
				ref.SetSTileHeader(want.STileHeader)
				ref.SetBTileHeader(want.BTileHeader)
				ref.SetBTileHeader2(want.BTileHeader2)
				ref.SetBTileHeader3(want.BTileHeader3)
				ref.SetFrameX(want.FrameX)
				ref.SetFrameY(want.FrameY)
			}
		}

		for x := 0; x < p.Width(); x++ {
			for y := 0; y < p.Height(); y++ {
				fresh, _ := p.Ref(x, y)
				if got := fresh.Data(); got != want {
					t.Fatalf("value set %d: tile (%d, %d) = %+v, want %+v", i, x, y, got, want)
				}
			}
		}
	}
}

func TestRefsAlias(t *testing.T) {
	p := NewTileProvider(WorldSize{MaxTilesX: 4, MaxTilesY: 4})
	a, _ := p.Ref(2, 3)
	b, _ := p.Ref(2, 3)

	a.SetType(42)
	if b.Type() != 42 {
		t.Fatalf("second ref reads type %d after write through first", b.Type())
	}

	b.SetFrameY(-7)
	if a.FrameY() != -7 {
		t.Fatalf("first ref reads frameY %d after write through second", a.FrameY())
	}

	viaInterface, _ := p.Tile(2, 3)
	viaInterface.SetLiquid(200)
	if a.Liquid() != 200 || b.Liquid() != 200 {
		t.Fatal("write through Tile interface not visible to refs")
	}
}

func TestWritesAreDisjoint(t *testing.T) {
	p := NewTileProvider(WorldSize{MaxTilesX: 6, MaxTilesY: 5})
	target, _ := p.Ref(3, 2)
	target.SetData(TileData{Type: 0xffff, Wall: 0xffff, Liquid: 0xff, STileHeader: 0xffff,
		BTileHeader: 0xff, BTileHeader2: 0xff, BTileHeader3: 0xff, FrameX: -1, FrameY: -1})

	for x := 0; x < p.Width(); x++ {
		for y := 0; y < p.Height(); y++ {
			if x == 3 && y == 2 {
				continue
			}
			ref, _ := p.Ref(x, y)
			if got := ref.Data(); got != (TileData{}) {
				t.Fatalf("tile (%d, %d) = %+v after writing (3, 2)", x, y, got)
			}
		}
	}
}

func TestColumnMajorLayout(t *testing.T) {
	p := NewTileProvider(WorldSize{MaxTilesX: 3, MaxTilesY: 2})
	ref, _ := p.Ref(2, 1)
	ref.SetType(0xbeef)

	data, err := p.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != p.Len()*TileDataSize {
		t.Fatalf("backing array is %d bytes, want %d", len(data), p.Len()*TileDataSize)
	}

	off := (p.Height()*2 + 1) * TileDataSize
	if data[off] != 0xef || data[off+1] != 0xbe {
		t.Fatalf("type of (2, 1) not at byte %d: % x", off, data[off:off+2])
	}

	// Raw writes show through refs too.
	data[off+offLiquid] = 9
	if ref.Liquid() != 9 {
		t.Fatalf("raw write not visible, liquid = %d", ref.Liquid())
	}
}

func TestSingleAllocation(t *testing.T) {
	p := NewTileProvider(WorldSize{MaxTilesX: 9, MaxTilesY: 9})

	first, err := p.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !p.Allocated() {
		t.Fatal("Allocated false after Bytes")
	}
	ref, _ := p.Ref(0, 0)
	ref.SetWall(12)

	for i := 0; i < 100; i++ {
		if err := p.SetTile(i%10, i/10, sampleTile()); err != nil {
			t.Fatal(err)
		}
		if _, err := p.Tile(i/10, i%10); err != nil {
			t.Fatal(err)
		}
	}

	again, _ := p.Bytes()
	if &first[0] != &again[0] {
		t.Fatal("backing array was reallocated")
	}
	if ref.Wall() != 3 {
		t.Fatalf("old ref detached from storage: wall = %d", ref.Wall())
	}
}

func TestConcurrentFirstAccess(t *testing.T) {
	p := NewTileProvider(WorldSize{MaxTilesX: 63, MaxTilesY: 63})

	var wg sync.WaitGroup
	start := make(chan struct{})
	for x := 0; x < p.Width(); x++ {
		wg.Add(1)
		go func(x int) {
			defer wg.Done()
			<-start
			for y := 0; y < p.Height(); y++ {
				ref, err := p.Ref(x, y)
				if err != nil {
					t.Error(err)
					return
				}
				ref.SetType(uint16(x))
				ref.SetWall(uint16(y))
			}
		}(x)
	}
	close(start)
	wg.Wait()

	for x := 0; x < p.Width(); x++ {
		for y := 0; y < p.Height(); y++ {
			ref, _ := p.Ref(x, y)
			if ref.Type() != uint16(x) || ref.Wall() != uint16(y) {
				t.Fatalf("tile (%d, %d) = type %d wall %d, a write was lost", x, y, ref.Type(), ref.Wall())
			}
		}
	}
}

func TestOutOfBounds(t *testing.T) {
	p := NewTileProvider(WorldSize{MaxTilesX: 4, MaxTilesY: 2})
	cases := []struct{ x, y int }{
		{-1, 0}, {0, -1}, {5, 0}, {0, 3}, {5, 3}, {math.MaxInt32, 0}, {math.MinInt32, math.MinInt32},
	}

	for _, c := range cases {
		if _, err := p.Ref(c.x, c.y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Ref(%d, %d) err = %v, want ErrOutOfBounds", c.x, c.y, err)
		}
		if _, err := p.Tile(c.x, c.y); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Tile(%d, %d) err = %v, want ErrOutOfBounds", c.x, c.y, err)
		}
		if err := p.SetTile(c.x, c.y, sampleTile()); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetTile(%d, %d) err = %v, want ErrOutOfBounds", c.x, c.y, err)
		}
	}

	if p.Allocated() {
		t.Fatal("out of bounds access allocated storage")
	}

	// Edges are fine.
	if _, err := p.Ref(4, 2); err != nil {
		t.Fatalf("Ref(4, 2): %v", err)
	}
	data, _ := p.Bytes()
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d = %d, out of bounds writes leaked into storage", i, b)
		}
	}
}

func TestAllocationFailure(t *testing.T) {
	cases := []WorldSize{
		{MaxTilesX: -1, MaxTilesY: 10},
		{MaxTilesX: 10, MaxTilesY: -5},
		{MaxTilesX: math.MaxInt32, MaxTilesY: math.MaxInt32},
	}

	for _, size := range cases {
		p := NewTileProvider(size)
		_, err := p.Bytes()
		if !errors.Is(err, ErrAllocation) {
			t.Errorf("%+v: err = %v, want ErrAllocation", size, err)
			continue
		}
		if p.Allocated() {
			t.Errorf("%+v: Allocated after failure", size)
		}

		// The failure sticks; nothing is retried.
		if size.MaxTilesX >= 0 && size.MaxTilesY >= 0 {
			if _, again := p.Ref(0, 0); !errors.Is(again, ErrAllocation) {
				t.Errorf("%+v: second access err = %v", size, again)
			}
		}
	}
}

func TestSetTileNil(t *testing.T) {
	p := NewTileProvider(WorldSize{MaxTilesX: 1, MaxTilesY: 1})
	if err := p.SetTile(0, 0, nil); !errors.Is(err, ErrNilTile) {
		t.Fatalf("err = %v, want ErrNilTile", err)
	}

	var nilHeap *HeapTile
	if err := p.SetTile(0, 0, nilHeap); !errors.Is(err, ErrNilTile) {
		t.Fatalf("typed nil err = %v, want ErrNilTile", err)
	}
}

func TestProvidersAgree(t *testing.T) {
	size := WorldSize{MaxTilesX: 11, MaxTilesY: 7}
	providers := []TileCollection{NewTileProvider(size), NewHeapTileProvider(size)}

	for _, p := range providers {
		for x := 0; x < p.Width(); x++ {
			for y := 0; y < p.Height(); y++ {
				src := NewHeapTile()
				src.SetType(uint16(x*31 + y))
				src.SetFrameX(int16(-x))
				src.SetFrameY(int16(y * 18))
				src.SetBTileHeader3(uint8(x ^ y))
				if err := p.SetTile(x, y, src); err != nil {
					t.Fatal(err)
				}
			}
		}
	}

	for x := 0; x < size.MaxTilesX+1; x++ {
		for y := 0; y < size.MaxTilesY+1; y++ {
			packed, _ := providers[0].Tile(x, y)
			heap, _ := providers[1].Tile(x, y)
			if packed.(TileRef).Data() != heap.(*HeapTile).TileData {
				t.Fatalf("tile (%d, %d) differs between providers", x, y)
			}
		}
	}
}

func TestHeapProviderErrors(t *testing.T) {
	p := NewHeapTileProvider(WorldSize{MaxTilesX: 2, MaxTilesY: 4})
	if p.Width() != 3 || p.Height() != 5 {
		t.Fatalf("dimensions = %dx%d, want 3x5", p.Width(), p.Height())
	}
	if _, err := p.Tile(3, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
	if err := p.SetTile(0, 0, nil); !errors.Is(err, ErrNilTile) {
		t.Fatalf("err = %v, want ErrNilTile", err)
	}

	bad := NewHeapTileProvider(WorldSize{MaxTilesX: -2, MaxTilesY: 2})
	if _, err := bad.Tile(0, 0); !errors.Is(err, ErrOutOfBounds) && !errors.Is(err, ErrAllocation) {
		t.Fatalf("err = %v", err)
	}
}

func BenchmarkTileProviderSetTile(b *testing.B) {
	benchmarkSetTile(b, NewTileProvider(WorldSize{MaxTilesX: 1023, MaxTilesY: 1023}))
}

func BenchmarkHeapTileProviderSetTile(b *testing.B) {
	benchmarkSetTile(b, NewHeapTileProvider(WorldSize{MaxTilesX: 1023, MaxTilesY: 1023}))
}

func benchmarkSetTile(b *testing.B, p TileCollection) {
	src := sampleTile()
	w, h := p.Width(), p.Height()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := p.SetTile(i%w, (i/w)%h, src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTileProviderRefRead(b *testing.B) {
	p := NewTileProvider(WorldSize{MaxTilesX: 1023, MaxTilesY: 1023})
	var sum int
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ref, _ := p.Ref(i%1024, (i/1024)%1024)
		sum += int(ref.Type()) + int(ref.FrameX())
	}
	_ = sum
}
