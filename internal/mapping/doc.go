// Package mapping holds the bidirectional symbol table of an archive and
// resolves class, member, descriptor and signature names across its two
// namespaces.
//
// The two namespaces are called the real side (the names developers program
// against) and the fake side (the names the distributed archive carries).
// Every lookup is parameterized by a Direction: the direction's source side is
// the side the caller's name lives on, its target side is the side the result
// is expressed in.
//
// Misses never fail. A name absent from the table is reported with a false
// result and callers leave it unchanged.
//
// # Mapping files
//
// Tables are usually loaded from YAML (or TOML, by file extension):
//
//	version: "1"
//	namespaces:
//	  real: named
//	  fake: obf
//	classes:
//	  - real: com/example/Widget
//	    fake: a/b
//	    fields:
//	      count: c              # shorthand, real: fake
//	    methods:
//	      - real: resize
//	        fake: a
//	        desc: (Lcom/example/Widget;I)V
//	        # fake_desc: (La/b;I)V   derived from the class table when omitted
//
// Fields may also be given as a list of {real, fake} objects. Method
// descriptors may be given on either side; the missing side is derived by
// mapping the given one through the class table.
//
// # Duplicates
//
// When two entries share a name on the same side, the entry that appears
// last wins. Validate reports such duplicates as warnings.
package mapping
