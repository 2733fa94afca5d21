package unwrap

// ExtractIslands labels the connected components of the face graph after seam
// cuts. Two faces are connected when they share an interior edge that is not
// a seam; boundary edges never connect anything.
//
// Every face receives exactly one island id. Ids are dense, 0-based, and
// assigned in root-discovery order with roots visited in ascending face
// index, so the labeling is a deterministic function of the input.
func ExtractIslands(numFaces int, topo *Topology, seams []int) (faceIslands []int, numIslands int) {
	faceIslands = make([]int, numFaces)
	for i := range faceIslands {
		faceIslands[i] = -1
	}

	isSeam := make([]bool, topo.NumEdges())
	for _, e := range seams {
		if e >= 0 && e < len(isSeam) {
			isSeam[e] = true
		}
	}

	adj := make([][]int, numFaces)
	for e, faces := range topo.EdgeFaces {
		if isSeam[e] {
			continue
		}
		f0, f1 := faces[0], faces[1]
		if f0 == noFace || f1 == noFace {
			continue
		}
		adj[f0] = append(adj[f0], f1)
		adj[f1] = append(adj[f1], f0)
	}

	for root := 0; root < numFaces; root++ {
		if faceIslands[root] != -1 {
			continue
		}
		id := numIslands
		numIslands++

		faceIslands[root] = id
		queue := []int{root}
		for len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]
			for _, next := range adj[f] {
				if faceIslands[next] == -1 {
					faceIslands[next] = id
					queue = append(queue, next)
				}
			}
		}
	}

	return faceIslands, numIslands
}
