package geometry

import (
	"math/rand"

	"github.com/ReinierMaas/PathTracer/pkg/core"
)

const sahBins = 8

// bvhNode is a node in the flattened tree. Count > 0 marks a leaf spanning
// indices[LeftFirst .. LeftFirst+Count]; Count == 0 marks an inner node whose
// left child sits at LeftFirst and right child at LeftFirst+1.
type bvhNode struct {
	Bounds    core.AABB
	LeftFirst int32
	Count     int32
}

// BVH is a binned-SAH bounding volume hierarchy over primitives. The object
// array is never reordered; partitioning permutes the index array only, so
// light indices stay stable across the build.
type BVH struct {
	objects  []Primitive
	indices  []int32
	lights   []int32
	nodes    []bvhNode
	maxDepth int
}

// NewBVH builds a BVH over the given primitives. The build is sequential
// and deterministic.
func NewBVH(objects []Primitive) *BVH {
	n := len(objects)

	bvh := &BVH{
		objects: objects,
		indices: make([]int32, n),
		nodes:   make([]bvhNode, 0, 2*n),
	}

	bounds := make([]core.AABB, n)
	centroids := make([]core.Vec3, n)
	rootBounds := core.EmptyAABB()
	for i := range objects {
		bvh.indices[i] = int32(i)
		bounds[i] = objects[i].Bounds()
		centroids[i] = objects[i].Centroid()
		rootBounds = rootBounds.Union(bounds[i])
		if _, isLight := objects[i].Light(); isLight {
			bvh.lights = append(bvh.lights, int32(i))
		}
	}

	bvh.nodes = append(bvh.nodes, bvhNode{Bounds: rootBounds, LeftFirst: 0, Count: int32(n)})
	if n == 0 {
		bvh.maxDepth = 1
		return bvh
	}

	// Iterative subdivision with an explicit worklist
	worklist := []int32{0}
	for len(worklist) > 0 {
		nodeIndex := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if bvh.nodes[nodeIndex].Count <= 2 {
			continue
		}
		if left, ok := bvh.partition(nodeIndex, bounds, centroids); ok {
			worklist = append(worklist, left, left+1)
		}
	}

	bvh.maxDepth = bvh.stackDepth(0)
	return bvh
}

// partition attempts a binned SAH split of the node. It refuses when no
// candidate split costs strictly less than leaving the node a leaf. On
// success it permutes the node's index range in place, appends the two
// children and returns the left child index.
func (b *BVH) partition(nodeIndex int32, bounds []core.AABB, centroids []core.Vec3) (int32, bool) {
	node := &b.nodes[nodeIndex]
	first := node.LeftFirst
	count := node.Count

	centroidBounds := core.EmptyAABB()
	for i := first; i < first+count; i++ {
		centroidBounds = centroidBounds.Extent(centroids[b.indices[i]])
	}

	type bin struct {
		bounds core.AABB
		count  int32
	}
	var bins [3][sahBins]bin
	for axis := 0; axis < 3; axis++ {
		for k := range bins[axis] {
			bins[axis][k].bounds = core.EmptyAABB()
		}
	}

	binWidth := centroidBounds.Size().Multiply(1.0 / sahBins)
	for i := first; i < first+count; i++ {
		index := b.indices[i]
		for axis := 0; axis < 3; axis++ {
			k := binFor(centroids[index].Axis(axis), centroidBounds.Min.Axis(axis), binWidth.Axis(axis))
			bins[axis][k].bounds = bins[axis][k].bounds.Union(bounds[index])
			bins[axis][k].count++
		}
	}

	parentCost := float64(count) * node.Bounds.SurfaceArea()
	bestCost := parentCost
	bestAxis, bestSplit := -1, -1

	for axis := 0; axis < 3; axis++ {
		for k := 0; k < sahBins-1; k++ {
			leftBounds := core.EmptyAABB()
			rightBounds := core.EmptyAABB()
			var leftCount, rightCount int32
			for j := 0; j <= k; j++ {
				leftBounds = leftBounds.Union(bins[axis][j].bounds)
				leftCount += bins[axis][j].count
			}
			for j := k + 1; j < sahBins; j++ {
				rightBounds = rightBounds.Union(bins[axis][j].bounds)
				rightCount += bins[axis][j].count
			}
			cost := float64(leftCount)*leftBounds.SurfaceArea() +
				float64(rightCount)*rightBounds.SurfaceArea()
			if cost < bestCost {
				bestCost = cost
				bestAxis, bestSplit = axis, k
			}
		}
	}

	if bestAxis < 0 {
		return 0, false
	}

	// Partition the index range so primitives left of the plane come first
	pivot := centroidBounds.Min.Axis(bestAxis) + float64(bestSplit+1)*binWidth.Axis(bestAxis)
	leftBounds := core.EmptyAABB()
	rightBounds := core.EmptyAABB()
	pivotIndex := first
	for i := first; i < first+count; i++ {
		index := b.indices[i]
		if centroids[index].Axis(bestAxis) <= pivot {
			leftBounds = leftBounds.Union(bounds[index])
			b.indices[pivotIndex], b.indices[i] = b.indices[i], b.indices[pivotIndex]
			pivotIndex++
		} else {
			rightBounds = rightBounds.Union(bounds[index])
		}
	}

	leftCount := pivotIndex - first
	if leftCount == 0 || leftCount == count {
		// Binning said a split exists but the sweep put everything on
		// one side; keep the leaf.
		return 0, false
	}

	leftIndex := int32(len(b.nodes))
	b.nodes = append(b.nodes,
		bvhNode{Bounds: leftBounds, LeftFirst: first, Count: leftCount},
		bvhNode{Bounds: rightBounds, LeftFirst: pivotIndex, Count: count - leftCount},
	)

	node = &b.nodes[nodeIndex] // reacquire: append may have moved the slice
	node.LeftFirst = leftIndex
	node.Count = 0

	return leftIndex, true
}

func binFor(centroid, boundsMin, width float64) int {
	if width <= 0 {
		return 0
	}
	k := int((centroid - boundsMin) / width)
	if k < 0 {
		return 0
	}
	if k > sahBins-1 {
		return sahBins - 1
	}
	return k
}

// stackDepth returns the worst-case traversal stack occupancy for the
// subtree, with both children pushed at every inner node.
func (b *BVH) stackDepth(nodeIndex int32) int {
	node := &b.nodes[nodeIndex]
	if node.Count > 0 {
		return 1
	}
	left := b.stackDepth(node.LeftFirst)
	right := b.stackDepth(node.LeftFirst + 1)
	return 1 + max(left, right)
}

// MaxStackDepth returns the traversal stack capacity required for this tree
func (b *BVH) MaxStackDepth() int {
	return b.maxDepth
}

// PrimitiveCount returns the number of primitives in the tree
func (b *BVH) PrimitiveCount() int {
	return len(b.objects)
}

// Primitive returns the primitive with the given stable index
func (b *BVH) Primitive(i int) *Primitive {
	return &b.objects[i]
}

// Indices exposes the index permutation for structural checks
func (b *BVH) Indices() []int32 {
	return b.indices
}

// Traversal holds per-worker traversal state: the node stack, sized to the
// precomputed maximum depth, and a count of leaf primitive tests for
// diagnostics. A Traversal is owned by one worker and never shared.
type Traversal struct {
	stack     []int32
	LeafTests int
}

// NewTraversal allocates traversal state sized for this tree
func (b *BVH) NewTraversal() *Traversal {
	return &Traversal{stack: make([]int32, 0, b.maxDepth+1)}
}

// IntersectClosest returns the nearest hit along the ray, shortening the
// ray's Distance to the hit t.
func (b *BVH) IntersectClosest(ray *core.Ray, tr *Traversal) (Intersection, bool) {
	return b.intersect(ray, tr, false)
}

// IntersectAny returns the first hit discovered in traversal order; used for
// shadow rays where any occluder suffices.
func (b *BVH) IntersectAny(ray *core.Ray, tr *Traversal) (Intersection, bool) {
	return b.intersect(ray, tr, true)
}

func (b *BVH) intersect(ray *core.Ray, tr *Traversal, anyHit bool) (Intersection, bool) {
	if len(b.objects) == 0 {
		return Intersection{}, false
	}

	var closest Intersection
	found := false

	stack := tr.stack[:0]
	stack = append(stack, 0)

	for len(stack) > 0 {
		nodeIndex := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &b.nodes[nodeIndex]

		tmin, _, hit := node.Bounds.Intersect(*ray)
		if !hit || tmin >= ray.Distance {
			continue
		}

		if node.Count > 0 {
			for i := node.LeftFirst; i < node.LeftFirst+node.Count; i++ {
				tr.LeafTests++
				if intersection, ok := b.objects[b.indices[i]].Intersect(ray); ok {
					closest = intersection
					found = true
					if anyHit {
						tr.stack = stack
						return closest, true
					}
				}
			}
			continue
		}

		left := node.LeftFirst
		right := node.LeftFirst + 1
		tl, _, hitL := b.nodes[left].Bounds.Intersect(*ray)
		tRight, _, hitR := b.nodes[right].Bounds.Intersect(*ray)

		switch {
		case hitL && hitR:
			// Push the farther child first so the nearer pops first
			if tl <= tRight {
				stack = append(stack, right, left)
			} else {
				stack = append(stack, left, right)
			}
		case hitL:
			stack = append(stack, left)
		case hitR:
			stack = append(stack, right)
		}
	}

	tr.stack = stack
	return closest, found
}

// RandomLight picks a light source uniformly. Returns the number of lights
// in the scene and the chosen primitive, or false when the scene has none.
func (b *BVH) RandomLight(random *rand.Rand) (int, *Primitive, bool) {
	if len(b.lights) == 0 {
		return 0, nil, false
	}
	index := b.lights[random.Intn(len(b.lights))]
	return len(b.lights), &b.objects[index], true
}

// LightCount returns the number of emissive primitives in the tree
func (b *BVH) LightCount() int {
	return len(b.lights)
}
