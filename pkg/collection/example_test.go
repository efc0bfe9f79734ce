package collection_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jzx17/collext/pkg/collection"
	"github.com/jzx17/collext/pkg/types"
)

func ExampleAverage() {
	fmt.Println(collection.Average(collection.Of(1, 2, 3, 4)))
	fmt.Println(collection.Average(collection.Of[int]()))
	// Output:
	// 2.5
	// 0
}

func ExampleSafeIndex() {
	items := collection.Of(1, 2, 3, 4)

	v, ok := collection.SafeIndex(items, 2)
	fmt.Println(v, ok)

	_, ok = collection.SafeIndex(items, 10)
	fmt.Println(ok)

	fmt.Println(collection.SafeIndexOr(items, -1, 0))
	// Output:
	// 3 true
	// false
	// 0
}

func ExampleRandomItem() {
	v, ok := collection.RandomItem(collection.Of(7))
	fmt.Println(v, ok)

	_, ok = collection.RandomItem(collection.Of[string]())
	fmt.Println(ok)
	// Output:
	// 7 true
	// false
}

func ExampleIndices() {
	l := collection.NewList("a", "b", "c")
	for _, p := range collection.Indices(l) {
		fmt.Print(l.At(p))
	}
	fmt.Println()
	// Output: abc
}

func ExampleForEachInParallel() {
	var sum int64
	collection.ForEachInParallel(collection.Of(1, 2, 3, 4, 5), func(v int) {
		atomic.AddInt64(&sum, int64(v))
	}, collection.WithParallelism(2))

	fmt.Println(sum)
	// Output: 15
}

func ExampleForEachInParallelErr() {
	errOdd := errors.New("odd value")

	err := collection.ForEachInParallelErr(context.Background(), collection.Of(2, 4, 5, 6),
		func(_ context.Context, v int) error {
			if v%2 != 0 {
				return errOdd
			}
			return nil
		}, collection.WithParallelism(1))

	fmt.Println(errors.Is(err, errOdd), types.PositionOf(err))
	// Output: true 2
}
