package area

import (
	"errors"
	"math"
	"sort"

	"github.com/halvardsen/numwb/internal/function"
	"github.com/halvardsen/numwb/internal/wberrors"
)

// errRootEpsTooBig signals that, at the current root tolerance, the upper
// and lower area estimates disagree by more than areaEps — the caller
// should shrink the root tolerance and retry rather than surface this to
// the end user. It stays internal to the area computation.
var errRootEpsTooBig = errors.New("root tolerance too big for requested area precision")

// Triangle is the result of a curvilinear-triangle area computation: the
// area plus the x-coordinate of each pairwise intersection.
type Triangle struct {
	Area     float64
	ABx      float64
	ACx      float64
	BCx      float64
}

type side struct {
	x, y float64
	f    function.Func1
}

// Calc computes the area enclosed by curves a, b, c: locate each
// pairwise intersection within its bracket, classify the
// resulting triangle as top or bottom by comparing the two non-base
// slopes, then refine upper/lower Simpson estimates of its area until
// they agree within areaEps. If the area refinement's upper and lower
// estimates disagree by more than areaEps or fail to converge, rootStartEps
// is shrunk by a factor of 10 and the whole computation retried; a
// pairwise-intersection root search failing to converge is not retried and
// fails the computation immediately.
func Calc(a, b, c function.Func1, abBracket, acBracket, bcBracket [2]float64, rootStartEps, areaEps float64, maxIter int) (Triangle, error) {
	rootEps := rootStartEps

	for iter := 0; iter < maxIter; iter++ {
		abx, aby, err := falsePositionRoot(a, b, abBracket[0], abBracket[1], rootEps, maxIter)
		if err != nil {
			return Triangle{}, err
		}
		acx, acy, err := falsePositionRoot(a, c, acBracket[0], acBracket[1], rootEps, maxIter)
		if err != nil {
			return Triangle{}, err
		}
		bcx, bcy, err := falsePositionRoot(b, c, bcBracket[0], bcBracket[1], rootEps, maxIter)
		if err != nil {
			return Triangle{}, err
		}

		sides := []side{{abx, aby, c}, {acx, acy, b}, {bcx, bcy, a}}
		sort.Slice(sides, func(i, j int) bool { return sides[i].x < sides[j].x })

		slope1 := (sides[1].y - sides[0].y) / (sides[1].x - sides[0].x)
		slope2 := (sides[2].y - sides[0].y) / (sides[2].x - sides[0].x)

		var area float64
		if slope1 > slope2 {
			area, err = calcAreaTopTriangle(sides, rootEps, areaEps, maxIter)
		} else {
			area, err = calcAreaBottomTriangle(sides, rootEps, areaEps, maxIter)
		}

		if err == nil {
			return Triangle{Area: area, ABx: abx, ACx: acx, BCx: bcx}, nil
		}
		if shouldShrinkRootEps(err) {
			rootEps *= 0.1
			continue
		}
		return Triangle{}, err
	}

	return Triangle{}, &wberrors.IterationsEnded{Residual: rootEps, Iters: maxIter}
}

func shouldShrinkRootEps(err error) bool {
	if errors.Is(err, errRootEpsTooBig) {
		return true
	}
	var ie *wberrors.IterationsEnded
	return errors.As(err, &ie)
}

// calcAreaTopTriangle estimates the area of a triangle whose apex sits
// above its base: sides are sorted left-to-right (a,b,c) with bounding
// curves (f2, f3, f1). It integrates an upper
// bound S_max (the two outer curves minus the chord between them) and a
// lower bound S_min (swapped, tightened inward by rootEps), refining both
// by repeated panel doubling until they converge to within areaEps of
// both each other and their previous iteration.
func calcAreaTopTriangle(sides []side, rootEps, areaEps float64, maxIter int) (float64, error) {
	var maxCache0, maxCache1, maxCache2 simpsonCache
	var minCache0, minCache1, minCache2 simpsonCache

	a, b, c := sides[0].x, sides[1].x, sides[2].x
	f2, f3, f1 := sides[0].f, sides[1].f, sides[2].f

	calcSMax := func() (float64, error) {
		s1, err := maxCache0.step(f1, a-rootEps, b+rootEps)
		if err != nil {
			return 0, err
		}
		s2, err := maxCache1.step(f2, b-rootEps, c+rootEps)
		if err != nil {
			return 0, err
		}
		s3, err := minCache2.step(f3, a+rootEps, c-rootEps)
		if err != nil {
			return 0, err
		}
		return s1 + s2 - s3, nil
	}

	calcSMin := func() (float64, error) {
		s1, err := minCache0.step(f1, a+rootEps, b-rootEps)
		if err != nil {
			return 0, err
		}
		s2, err := minCache1.step(f2, b+rootEps, c-rootEps)
		if err != nil {
			return 0, err
		}
		s3, err := maxCache2.step(f3, a-rootEps, c+rootEps)
		if err != nil {
			return 0, err
		}
		return s1 + s2 - s3, nil
	}

	return refineAreaLoop(calcSMax, calcSMin, areaEps, maxIter)
}

// calcAreaBottomTriangle is calcAreaTopTriangle's mirror image for a
// triangle whose apex sits below its base, with bounding curves (f3, f1,
// f2) against the same sorted vertices.
func calcAreaBottomTriangle(sides []side, rootEps, areaEps float64, maxIter int) (float64, error) {
	var maxCache0, maxCache1, maxCache2 simpsonCache
	var minCache0, minCache1, minCache2 simpsonCache

	a, b, c := sides[0].x, sides[1].x, sides[2].x
	f3, f1, f2 := sides[0].f, sides[1].f, sides[2].f

	calcSMax := func() (float64, error) {
		s1, err := maxCache0.step(f1, a-rootEps, c+rootEps)
		if err != nil {
			return 0, err
		}
		s2, err := minCache1.step(f2, a+rootEps, b-rootEps)
		if err != nil {
			return 0, err
		}
		s3, err := minCache2.step(f3, b+rootEps, c-rootEps)
		if err != nil {
			return 0, err
		}
		return s1 - s2 - s3, nil
	}

	calcSMin := func() (float64, error) {
		s1, err := minCache0.step(f1, a+rootEps, c-rootEps)
		if err != nil {
			return 0, err
		}
		s2, err := maxCache1.step(f2, a-rootEps, b+rootEps)
		if err != nil {
			return 0, err
		}
		s3, err := maxCache2.step(f3, b-rootEps, c+rootEps)
		if err != nil {
			return 0, err
		}
		return s1 - s2 - s3, nil
	}

	return refineAreaLoop(calcSMax, calcSMin, areaEps, maxIter)
}

func refineAreaLoop(calcSMax, calcSMin func() (float64, error), areaEps float64, maxIter int) (float64, error) {
	smaxPrev, err := calcSMax()
	if err != nil {
		return 0, err
	}
	sminPrev, err := calcSMin()
	if err != nil {
		return 0, err
	}

	for iter := 0; iter < maxIter; iter++ {
		smax, err := calcSMax()
		if err != nil {
			return 0, err
		}
		smin, err := calcSMin()
		if err != nil {
			return 0, err
		}

		if math.Abs(smax-smin) > areaEps {
			return 0, errRootEpsTooBig
		}
		if math.Abs(smax-smaxPrev) < areaEps && math.Abs(smin-sminPrev) < areaEps {
			return (smax + smin) / 2, nil
		}

		smaxPrev, sminPrev = smax, smin
	}

	return 0, &wberrors.IterationsEnded{Residual: math.Abs(smaxPrev - sminPrev), Iters: maxIter}
}
