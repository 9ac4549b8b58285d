package hypergeom

import (
	"golang.org/x/crypto/sha3"

	"qkangaroo/internal/fps"
	"qkangaroo/internal/qmono"
	"qkangaroo/internal/qtrace"
	"qkangaroo/internal/symtab"
)

// NotFound reports that ChainSearch explored every state up to Depth
// without reaching the target.
type NotFound struct{ Depth int }

func (e NotFound) Error() string { return "hypergeom: no transformation chain found within depth bound" }

// ChainEdge is one step of a discovered transformation chain.
type ChainEdge struct {
	Name      string
	Target    Series
	Prefactor Prefactor
}

// edgeTransforms lists the transformations usable as generic BFS edges: the
// ones whose applicability can be decided from a Series alone, without an
// externally supplied square root (Watson's transformation requires one and
// is exposed only as a direct constructor, WatsonSource/WatsonTarget).
var edgeTransforms = []func(Series) (TransformationResult, error){
	Heine1, Heine2, Heine3, Sears,
}

func visitedKey(s Series) [32]byte {
	return sha3.Sum256([]byte(s.CanonicalKey()))
}

// ChainSearch performs a breadth-first search over the transformation graph
// rooted at start, looking for a series equal to target as a Formal Power
// Series (eval_phi(candidate) == eval_phi(target) at truncation t). It
// returns the shortest chain of edges connecting start to target, along with
// a NotFound error carrying the exhausted depth bound if none exists within
// maxDepth steps. The visited set is keyed by a SHA3-256 hash of each
// state's canonical parameter-multiset encoding, so that series differing
// only by the order in which parameters were listed are treated as the same
// node.
func ChainSearch(v symtab.ID, start, target Series, t fps.Truncation, maxDepth int) ([]ChainEdge, error) {
	targetVal, err := EvalPhi(v, target, t)
	if err != nil {
		return nil, err
	}

	type queued struct {
		s     Series
		chain []ChainEdge
	}

	visited := map[[32]byte]bool{visitedKey(start): true}
	queue := []queued{{s: start, chain: nil}}

	for depth := 0; depth <= maxDepth; depth++ {
		var next []queued
		for _, item := range queue {
			val, err := EvalPhi(v, item.s, t)
			if err == nil && val.Equal(targetVal) {
				return item.chain, nil
			}
			for _, transform := range edgeTransforms {
				res, terr := transform(item.s)
				if terr != nil {
					continue
				}
				key := visitedKey(res.Target)
				if visited[key] {
					continue
				}
				visited[key] = true
				chain := append(append([]ChainEdge(nil), item.chain...), ChainEdge{
					Name:      res.Name,
					Target:    res.Target,
					Prefactor: res.Prefactor,
				})
				next = append(next, queued{s: res.Target, chain: chain})
			}
		}
		qtrace.Stderrf("hypergeom: chainsearch depth=%d frontier=%d\n", depth, len(next))
		queue = next
		if len(queue) == 0 {
			break
		}
	}
	return nil, NotFound{Depth: maxDepth}
}

// CumulativePrefactor folds a discovered chain's per-edge prefactors into a
// single series, the running product/quotient of q-Pochhammer symbols
// connecting start to the chain's terminal series.
func CumulativePrefactor(v symtab.ID, q qmono.Mono, chain []ChainEdge, t fps.Truncation) (fps.Series, error) {
	result := fps.One(v, t)
	for _, edge := range chain {
		factor, err := EvalPrefactor(v, q, edge.Prefactor, t)
		if err != nil {
			return fps.Series{}, err
		}
		result = result.Mul(factor)
	}
	return result, nil
}
