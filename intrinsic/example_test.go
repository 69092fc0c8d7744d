package intrinsic_test

import (
	"fmt"

	"github.com/soypat/fort2jul/intrinsic"
)

// Converting the specification of  100 FORMAT(' N =', I5, 3X, F8.3)
func ExampleParseFormat() {
	f, err := intrinsic.ParseFormat("' N =', I5, 3X, F8.3")
	if err != nil {
		panic(err)
	}
	format, values, err := f.Printf()
	if err != nil {
		panic(err)
	}
	fmt.Printf("%q %d\n", format, values)
	// Output:
	// " N =%5d   %8.3f" 2
}

func ExampleLookup() {
	f, _ := intrinsic.Lookup("nint")
	fmt.Println(f.Emit([]string{"x / 2"}))
	// Output:
	// round(Int, x / 2)
}
