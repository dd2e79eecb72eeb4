package services

import (
	"cmp"
	"math"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
)

// volumeEpsilon absorbs float rounding when a product exactly fills a box.
const volumeEpsilon = 1e-9

// PackagingOptimizer computes a greedy packing plan for the boxes stocked at one
// pickup location.
//
// Selection rules:
//   - A box type that cannot hold one unit of a product (by any side, by volume, or by
//     maximum weight) is never used for that product
//   - Box types holding more units come first, then cheaper ones, then lower ids
//   - Boxes already opened are filled before a new one is opened (best fit)
//   - Products without measurements take no volume; their weight still counts
//   - A box type with zero maximum weight has no weight limit
//
// Running out of boxes is not an error: the result reports fewer packed units than
// requested.
type PackagingOptimizer struct{}

func NewPackagingOptimizer() PackagingOptimizer {
	return PackagingOptimizer{}
}

// Estimate packs a single product.
func (o PackagingOptimizer) Estimate(item packaging.Item, boxes []packaging.Box) packaging.EstimateResult {
	multi := o.EstimateMultiProduct([]packaging.Item{item}, boxes)
	return packaging.EstimateResult{
		Packages:  multi.Packages,
		Requested: multi.Requested[item.ProductID],
		Packed:    multi.Packed[item.ProductID],
	}
}

// EstimateMultiProduct packs several products into shared boxes. Larger products are
// placed first.
func (o PackagingOptimizer) EstimateMultiProduct(items []packaging.Item, boxes []packaging.Box) packaging.MultiProductResult {
	result := packaging.MultiProductResult{
		Requested: make(map[int64]int, len(items)),
		Packed:    make(map[int64]int, len(items)),
	}

	ordered := make([]packaging.Item, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		result.Requested[it.ProductID] += it.Quantity
		ordered = append(ordered, it)
	}
	slices.SortStableFunc(ordered, func(a, b packaging.Item) int {
		return cmp.Or(
			cmp.Compare(b.Dimensions.Volume(), a.Dimensions.Volume()),
			cmp.Compare(a.ProductID, b.ProductID),
		)
	})

	stock := make(map[int64]int, len(boxes))
	for _, b := range boxes {
		stock[b.PackageID] += b.Available
	}

	var opened []*openBox
	for _, it := range ordered {
		candidates := rankBoxes(it, boxes)
		unitVolume := it.Dimensions.Volume()
		unitWeight := it.Weight.Float64()

		for range it.Quantity {
			target := bestOpenedFit(opened, it, unitVolume, unitWeight)
			if target == nil {
				target = openNext(candidates, stock)
				if target == nil {
					break
				}
				opened = append(opened, target)
			}
			target.add(it.ProductID, unitVolume, unitWeight)
			result.Packed[it.ProductID]++
		}
	}

	result.Packages = summarize(opened)
	return result
}

type rankedBox struct {
	box      packaging.Box
	capacity int
}

type openBox struct {
	box        packaging.Box
	usedVolume float64
	usedWeight float64
	contents   map[int64]int
}

func (b *openBox) remainingVolume() float64 {
	return b.box.Dimensions.Volume() - b.usedVolume
}

func (b *openBox) remainingWeight() float64 {
	if b.box.MaxWeight.IsZero() {
		return math.Inf(1)
	}
	return b.box.MaxWeight.Float64() - b.usedWeight
}

func (b *openBox) add(productID int64, volume, weight float64) {
	b.usedVolume += volume
	b.usedWeight += weight
	b.contents[productID]++
}

// rankBoxes drops box types that cannot hold one unit and orders the rest.
func rankBoxes(item packaging.Item, boxes []packaging.Box) []rankedBox {
	ranked := make([]rankedBox, 0, len(boxes))
	for _, b := range boxes {
		if c := unitsPerBox(item, b); c >= 1 {
			ranked = append(ranked, rankedBox{box: b, capacity: c})
		}
	}
	slices.SortStableFunc(ranked, func(a, b rankedBox) int {
		return cmp.Or(
			cmp.Compare(b.capacity, a.capacity),
			a.box.UnitPrice.Cmp(b.box.UnitPrice),
			cmp.Compare(a.box.PackageID, b.box.PackageID),
		)
	})
	return ranked
}

// unitsPerBox is how many units of item fit into an empty box, by volume and weight.
func unitsPerBox(item packaging.Item, box packaging.Box) int {
	if !fitsInside(item.Dimensions, box.Dimensions) {
		return 0
	}

	byVolume := math.MaxInt
	if v := item.Dimensions.Volume(); v > 0 {
		byVolume = int(math.Floor(box.Dimensions.Volume()/v + volumeEpsilon))
	}

	byWeight := math.MaxInt
	if w := item.Weight.Float64(); w > 0 && !box.MaxWeight.IsZero() {
		byWeight = int(math.Floor(box.MaxWeight.Float64()/w + volumeEpsilon))
	}

	return min(byVolume, byWeight)
}

// fitsInside compares sides sorted by length so that any orientation is allowed.
func fitsInside(item, box kernel.Dimensions) bool {
	if !item.IsKnown() || item.Volume() == 0 {
		return true
	}
	if !box.IsKnown() {
		return false
	}

	is := []float64{item.Length(), item.Breadth(), item.Height()}
	bs := []float64{box.Length(), box.Breadth(), box.Height()}
	slices.Sort(is)
	slices.Sort(bs)
	for i := range is {
		if is[i] > bs[i]+volumeEpsilon {
			return false
		}
	}
	return true
}

// bestOpenedFit returns the opened box that is left with the least free volume after
// taking one unit, or nil when none can take it.
func bestOpenedFit(opened []*openBox, item packaging.Item, volume, weight float64) *openBox {
	var best *openBox
	bestLeft := math.Inf(1)

	for _, b := range opened {
		if !fitsInside(item.Dimensions, b.box.Dimensions) {
			continue
		}
		if b.remainingVolume()+volumeEpsilon < volume || b.remainingWeight()+volumeEpsilon < weight {
			continue
		}
		if left := b.remainingVolume() - volume; left < bestLeft {
			best, bestLeft = b, left
		}
	}
	return best
}

func openNext(candidates []rankedBox, stock map[int64]int) *openBox {
	for _, c := range candidates {
		if stock[c.box.PackageID] > 0 {
			stock[c.box.PackageID]--
			return &openBox{box: c.box, contents: make(map[int64]int)}
		}
	}
	return nil
}

func summarize(opened []*openBox) []packaging.Usage {
	byID := make(map[int64]*packaging.Usage)
	order := make([]int64, 0)

	for _, b := range opened {
		u, ok := byID[b.box.PackageID]
		if !ok {
			u = &packaging.Usage{
				PackageID: b.box.PackageID,
				Name:      b.box.Name,
				Kind:      b.box.Kind,
				UnitPrice: b.box.UnitPrice,
				Contents:  make(map[int64]int),
			}
			byID[b.box.PackageID] = u
			order = append(order, b.box.PackageID)
		}
		u.Count++
		for id, n := range b.contents {
			u.Contents[id] += n
		}
	}

	usages := make([]packaging.Usage, 0, len(order))
	for _, id := range order {
		usages = append(usages, *byID[id])
	}
	packaging.SortUsages(usages)
	return usages
}
