package text_test

import (
	"fmt"

	"github.com/walteh/csvexpand/pkg/text"
)

func ExampleReplacer_Replace() {
	replacer := text.NewReplacer(false)

	result := replacer.Replace("Hoteles en Toledo, Toledo",
		text.Rule{From: "Toledo", To: "Cuenca"},
	)

	fmt.Printf("Original: %s\n", result.Original)
	fmt.Printf("Modified: %s\n", result.Modified)
	fmt.Printf("Changes: %d\n", result.Count)

	// Output:
	// Original: Hoteles en Toledo, Toledo
	// Modified: Hoteles en Cuenca, Toledo
	// Changes: 1
}
