// Package io reads and writes chart datasets as JSON.
//
// Violin input:
//
//	{
//	  "binCentres": [0.5, 1.5, 2.5],
//	  "density": [
//	    {"name": "T cells", "id": "tcells", "values": [0.1, 1, 0.3]}
//	  ]
//	}
//
// Box plot input:
//
//	{
//	  "records": [
//	    {"names": ["PopA", "CondX"], "count": 10},
//	    {"names": ["CondX"], "count": 20}
//	  ],
//	  "populations": ["PopA"],
//	  "conditions": ["CondX"],
//	  "barColors": {"PopA": "#336699"}
//	}
//
// Read functions validate what they decode and return
// [errors.ErrCodeInvalidDataset] errors naming the offending field.
// Writers indent with two spaces so exports diff cleanly.
//
// [errors.ErrCodeInvalidDataset]: github.com/matzehuels/flowplot/pkg/errors.ErrCodeInvalidDataset
package io
