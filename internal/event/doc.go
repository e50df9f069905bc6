// Package event provides the record stream the engine runs over.
//
// The stream is consumed strictly sequentially. Each time the cursor
// advances it stamps the new record with a Position drawn from a logical
// Clock, so positions are strictly increasing and never reused within a
// process. Consumers never do arithmetic on a Position; they only compare
// it with the one they saw last (see package cache).
//
// Records are read from YAML datasets:
//
//	name: DYJetsToLL
//	simulation: true
//	records:
//	  - run: 1
//	    lumi: 7
//	    event: 42
//	    trigger: true
//	    gen_weight: 1.0
//	    true_pileup: 23.4
//	    muons:
//	      - { pt: 45.1, eta: 0.3, phi: 1.2, charge: 1, id: 2 }
//	      - { pt: 38.7, eta: -1.1, phi: -1.9, charge: -1, id: 2 }
//	    jets:
//	      - { pt: 62.0, eta: 2.1, phi: 0.4, mass: 8.0 }
//	    ptmiss: { pt: 12.5, phi: 2.2 }
package event
