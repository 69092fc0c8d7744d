package fort2jul_test

import (
	"fmt"

	"github.com/soypat/fort2jul"
)

// Example_translate translates a small program and prints the Julia source.
func Example_translate() {
	src := `      PROGRAM HELLO
      INTEGER I
      DO 10 I = 1, 2
        PRINT *, 'Hello', I
   10 CONTINUE
      END
`
	res, err := fort2jul.Translate(src, fort2jul.Options{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("program:", res.ProgramName)
	fmt.Print(res.Program)
	// Output:
	// program: HELLO
	// include("macros.jl")
	//
	// using Printf
	//
	// global I = 0
	// for I in 1:2
	// 	println("Hello", " ", I)
	// end
}

// Example_diagnostics shows the diagnostics recorded for constructs that have
// no Julia translation.
func Example_diagnostics() {
	src := `      PROGRAM P
      SAVE
      EQUIVALENCE (A, B)
      END
`
	res, err := fort2jul.Translate(src, fort2jul.Options{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, d := range res.Diagnostics {
		fmt.Println(d)
	}
	// Output:
	// 2:7: warning: SaveStmt: saved variables are not preserved between calls
	// 3:7: warning: EquivalenceStmt: storage association is not translated
}
