package backup

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/andreyvit/savecodec/internal/savetest"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type testStore struct {
	*Store
	now time.Time
}

func (s *testStore) advance(d time.Duration) { s.now = s.now.Add(d) }

func eachBackend(t *testing.T, f func(t *testing.T, s *testStore)) {
	for _, backend := range []string{"mem", "bolt"} {
		t.Run(backend, func(t *testing.T) {
			ts := &testStore{now: start}
			o := Options{
				Now:     func() time.Time { return ts.now },
				Logger:  savetest.Logger(t),
				Verbose: true,
			}
			var err error
			switch backend {
			case "mem":
				ts.Store = OpenMem(o)
			case "bolt":
				ts.Store, err = Open(filepath.Join(t.TempDir(), "backups.db"), o)
				if err != nil {
					t.Fatal(err)
				}
			}
			t.Cleanup(func() {
				if err := ts.Close(); err != nil {
					t.Error(err)
				}
			})
			f(t, ts)
		})
	}
}

func saveData(tag byte, n int) []byte {
	return append(bytes.Repeat([]byte{tag}, n), 'x', tag)
}

func TestStore_PutGetList(t *testing.T) {
	ctx := context.Background()
	eachBackend(t, func(t *testing.T, s *testStore) {
		a, b := saveData('a', 1000), saveData('b', 2000)

		ma, err := s.Put(ctx, "me1.sav", "plot", a)
		if err != nil {
			t.Fatal(err)
		}
		if ma.Sum != xxhash.Sum64(a) || ma.Size != int64(len(a)) || ma.Format != "plot" {
			t.Fatalf("Put(a) = %+v", ma)
		}
		if ma.Stored >= ma.Size {
			t.Errorf("Stored = %d, wanted < %d (compressed)", ma.Stored, ma.Size)
		}

		s.advance(time.Minute)
		if _, err := s.Put(ctx, "me1.sav", "plot", b); err != nil {
			t.Fatal(err)
		}

		metas, err := s.List("me1.sav")
		if err != nil {
			t.Fatal(err)
		}
		if len(metas) != 2 || metas[0].Sum != xxhash.Sum64(b) || metas[1].Sum != ma.Sum {
			t.Fatalf("List = %v, wanted [b a]", metas)
		}
		if !metas[0].Time.Equal(start.Add(time.Minute)) {
			t.Fatalf("List[0].Time = %v, wanted %v", metas[0].Time, start.Add(time.Minute))
		}

		got, err := s.Get("me1.sav", ma.Sum)
		if err != nil {
			t.Fatal(err)
		}
		savetest.BytesEq(t, got, a)

		latest, err := s.Latest("me1.sav")
		if err != nil || latest.Sum != xxhash.Sum64(b) {
			t.Fatalf("Latest = %v, %v, wanted b", latest, err)
		}

		if metas, err := s.List("other.sav"); err != nil || len(metas) != 0 {
			t.Fatalf("List(other) = %v, %v, wanted empty", metas, err)
		}
	})
}

func TestStore_Dedup(t *testing.T) {
	ctx := context.Background()
	eachBackend(t, func(t *testing.T, s *testStore) {
		a, b := saveData('a', 100), saveData('b', 100)
		first := must(s.Put(ctx, "s", "", a))
		s.advance(time.Second)
		again := must(s.Put(ctx, "s", "", a))
		if !again.Time.Equal(first.Time) {
			t.Fatalf("re-Put of identical latest content created a new version at %v", again.Time)
		}
		s.advance(time.Second)
		must(s.Put(ctx, "s", "", b))
		s.advance(time.Second)
		must(s.Put(ctx, "s", "", a))

		st := must(s.Stats("s"))
		if st.Versions != 3 || st.Blobs != 2 {
			t.Fatalf("Stats = %+v, wanted 3 versions, 2 blobs", st)
		}
		if st.Size != int64(len(a)+len(b)) {
			t.Fatalf("Stats.Size = %d, wanted %d", st.Size, len(a)+len(b))
		}
	})
}

func TestStore_Prune(t *testing.T) {
	ctx := context.Background()
	eachBackend(t, func(t *testing.T, s *testStore) {
		var sums []uint64
		for i := range 5 {
			m := must(s.Put(ctx, "s", "", saveData(byte('a'+i), 50)))
			sums = append(sums, m.Sum)
			s.advance(time.Second)
		}
		n, err := s.Prune(ctx, "s", 2)
		if err != nil || n != 3 {
			t.Fatalf("Prune = %d, %v, wanted 3", n, err)
		}
		metas := must(s.List("s"))
		if len(metas) != 2 || metas[0].Sum != sums[4] || metas[1].Sum != sums[3] {
			t.Fatalf("List after Prune = %v", metas)
		}
		_, err = s.Get("s", sums[0])
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(pruned) err = %v, wanted ErrNotFound", err)
		}
		if st := must(s.Stats("s")); st.Blobs != 2 {
			t.Fatalf("Blobs = %d after Prune, wanted 2", st.Blobs)
		}

		n, err = s.Prune(ctx, "missing", 1)
		if err != nil || n != 0 {
			t.Fatalf("Prune(missing) = %d, %v", n, err)
		}
	})
}

func TestStore_PruneKeepsSharedContent(t *testing.T) {
	ctx := context.Background()
	eachBackend(t, func(t *testing.T, s *testStore) {
		a, b := saveData('a', 10), saveData('b', 10)
		must(s.Put(ctx, "s", "", a))
		s.advance(time.Second)
		must(s.Put(ctx, "s", "", b))
		s.advance(time.Second)
		must(s.Put(ctx, "s", "", a))

		must(s.Prune(ctx, "s", 1))
		got := must(s.Get("s", xxhash.Sum64(a)))
		savetest.BytesEq(t, got, a)
		if _, err := s.Get("s", xxhash.Sum64(b)); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(b) err = %v, wanted ErrNotFound", err)
		}
	})
}

func TestStore_Errors(t *testing.T) {
	eachBackend(t, func(t *testing.T, s *testStore) {
		_, err := s.Get("nope", 1)
		var se *StoreError
		if !errors.As(err, &se) || se.Op != "get" || se.Name != "nope" || !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get err = %v, wanted StoreError(get, nope, ErrNotFound)", err)
		}
		if _, err := s.Latest("nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Latest err = %v, wanted ErrNotFound", err)
		}
		if err := s.Forget("nope"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Forget err = %v, wanted ErrNotFound", err)
		}
	})
}

func TestStore_Forget(t *testing.T) {
	ctx := context.Background()
	eachBackend(t, func(t *testing.T, s *testStore) {
		must(s.Put(ctx, "a", "", saveData('a', 10)))
		must(s.Put(ctx, "b", "", saveData('b', 10)))
		if err := s.Forget("a"); err != nil {
			t.Fatal(err)
		}
		if metas := must(s.List("a")); len(metas) != 0 {
			t.Fatalf("List(a) = %v after Forget", metas)
		}
		if metas := must(s.List("b")); len(metas) != 1 {
			t.Fatalf("List(b) = %v, wanted 1 version", metas)
		}
	})
}

func TestStore_BoltPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "b.db")
	data := saveData('z', 300)

	s, err := Open(path, Options{Logger: savetest.Logger(t)})
	if err != nil {
		t.Fatal(err)
	}
	m := must(s.Put(ctx, "s", "plot", data))
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(path, Options{Logger: savetest.Logger(t)})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	savetest.BytesEq(t, must(s.Get("s", m.Sum)), data)
}

func TestMeta(t *testing.T) {
	m := &Meta{Name: "x", Sum: 0xABC, Size: 10, Stored: 5, Time: start, Format: "plot"}
	back, err := decodeMeta(encodeMeta(m))
	if err != nil {
		t.Fatal(err)
	}
	if back.Name != m.Name || back.Sum != m.Sum || back.Size != m.Size || back.Stored != m.Stored || !back.Time.Equal(m.Time) || back.Format != m.Format {
		t.Fatalf("decodeMeta = %+v, wanted %+v", back, m)
	}
	if s := m.SumString(); s != "0000000000000abc" {
		t.Fatalf("SumString = %q", s)
	}
	if v, err := ParseSum("0000000000000abc"); err != nil || v != 0xABC {
		t.Fatalf("ParseSum = %x, %v", v, err)
	}
	if _, err := ParseSum("zz"); err == nil {
		t.Fatalf("ParseSum(zz) succeeded")
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
