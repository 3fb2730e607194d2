package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/allplay/pkg/metrics"
)

// counterValue reads a namespace-labelled counter from the service registry.
func counterValue(name, namespace string) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return 0
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "namespace" && l.GetValue() == namespace {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestKey_String(t *testing.T) {
	Convey("Given cache keys", t, func() {
		Convey("Then week keys carry the week number", func() {
			So(Key{Namespace: "scores", League: "L1", Week: 3}.String(), ShouldEqual, "scores:L1:3:0")
		})

		Convey("Then season keys carry the window", func() {
			So(Key{Namespace: "season", League: "L1", Week: SeasonWeek, MaxWeek: 14}.String(), ShouldEqual, "season:L1:season:14")
		})

		Convey("Then different windows never collide", func() {
			a := Key{Namespace: "season", League: "L1", MaxWeek: 13}
			b := Key{Namespace: "season", League: "L1", MaxWeek: 14}
			So(a.String(), ShouldNotEqual, b.String())
		})
	})
}

func TestCacheStore_BasicOperations(t *testing.T) {
	Convey("Given an empty cache store", t, func() {
		ctx := context.Background()
		store := NewCacheStore(ctx, WithCleanupInterval(time.Minute))
		defer store.Close()

		key := Key{Namespace: "scores", League: "L1", Week: 1}

		Convey("Then lookups miss", func() {
			_, ok := store.Get(ctx, key)
			So(ok, ShouldBeFalse)
			So(store.Count(ctx), ShouldEqual, 0)
		})

		Convey("When a value is set", func() {
			So(store.Set(ctx, key, []int{1, 2}, time.Minute), ShouldBeNil)

			Convey("Then it is returned", func() {
				v, ok := store.Get(ctx, key)
				So(ok, ShouldBeTrue)
				So(v, ShouldResemble, []int{1, 2})
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("Then typed lookups succeed for the right type", func() {
				v, ok, err := Lookup[[]int](ctx, store, key)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(v, ShouldHaveLength, 2)
			})

			Convey("Then typed lookups report a mismatch for the wrong type", func() {
				_, ok, err := Lookup[string](ctx, store, key)
				So(ok, ShouldBeFalse)
				So(errors.Is(err, ErrTypeMismatch), ShouldBeTrue)
			})

			Convey("Then Delete removes it", func() {
				store.Delete(ctx, key)
				_, ok := store.Get(ctx, key)
				So(ok, ShouldBeFalse)
			})

			Convey("Then Flush removes everything", func() {
				store.Flush(ctx)
				So(store.Count(ctx), ShouldEqual, 0)
			})
		})

		Convey("When setting without a namespace", func() {
			err := store.Set(ctx, Key{League: "L1"}, 1, time.Minute)

			Convey("Then the key is rejected", func() {
				So(errors.Is(err, ErrInvalidKey), ShouldBeTrue)
			})
		})
	})
}

func TestCacheStore_Expiry(t *testing.T) {
	Convey("Given an entry with a short TTL", t, func() {
		ctx := context.Background()
		store := NewCacheStore(ctx, WithCleanupInterval(10*time.Millisecond))
		defer store.Close()

		key := Key{Namespace: "nfl-state"}
		So(store.Set(ctx, key, "state", 20*time.Millisecond), ShouldBeNil)

		Convey("Then it expires", func() {
			time.Sleep(60 * time.Millisecond)
			_, ok := store.Get(ctx, key)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a non-positive TTL", t, func() {
		ctx := context.Background()
		store := NewCacheStore(ctx, WithDefaultTTL(time.Hour))
		defer store.Close()

		key := Key{Namespace: "users", League: "L1"}
		So(store.Set(ctx, key, "v", 0), ShouldBeNil)

		Convey("Then the default TTL applies", func() {
			_, exp, ok := store.cache.GetWithExpiration(key.String())
			So(ok, ShouldBeTrue)
			So(time.Until(exp), ShouldBeGreaterThan, 59*time.Minute)
		})
	})
}

func TestCacheStore_Metrics(t *testing.T) {
	Convey("Given a store recording cache metrics", t, func() {
		ctx := context.Background()
		store := NewCacheStore(ctx)
		defer store.Close()

		ns := "metrics-test"
		hits := counterValue("allplay_standings_cache_hits_total", ns)
		misses := counterValue("allplay_standings_cache_misses_total", ns)

		key := Key{Namespace: ns, League: "L1"}
		store.Get(ctx, key)
		So(store.Set(ctx, key, 1, time.Minute), ShouldBeNil)
		store.Get(ctx, key)
		store.Get(ctx, key)

		Convey("Then hits and misses are counted per namespace", func() {
			So(counterValue("allplay_standings_cache_hits_total", ns), ShouldEqual, hits+2)
			So(counterValue("allplay_standings_cache_misses_total", ns), ShouldEqual, misses+1)
		})
	})
}

func TestCacheStore_Concurrency(t *testing.T) {
	Convey("Given concurrent readers and writers", t, func() {
		ctx := context.Background()
		store := NewCacheStore(ctx)
		defer store.Close()

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					key := Key{Namespace: "scores", League: fmt.Sprintf("L%d", i), Week: j%14 + 1}
					_ = store.Set(ctx, key, j, time.Minute)
					store.Get(ctx, key)
				}
			}(i)
		}
		wg.Wait()

		Convey("Then every distinct key is held", func() {
			So(store.Count(ctx), ShouldEqual, 16*14)
		})
	})
}

func TestCacheStore_Close(t *testing.T) {
	Convey("Given a store whose context is cancelled", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		store := NewCacheStore(ctx, WithMetricsUpdateInterval(5*time.Millisecond))
		cancel()

		Convey("Then Close returns and can be called twice", func() {
			So(func() {
				store.Close()
				store.Close()
			}, ShouldNotPanic)
		})
	})
}
