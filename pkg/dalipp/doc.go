// Package dalipp provides a type-name driven pretty-printer registry.
//
// A Registry maps demangled C++ type names to printer factories. Resolving a
// type name tries, in order:
//
//  1. the exact name,
//  2. the base name of a templated type ("Dali::Vector<int>" tries "Dali::Vector"),
//  3. the generic structural printer, when the name contains the generic marker.
//
// A miss is not an error; callers fall back to the default representation.
//
// # Quick Start
//
//	r := dalipp.New("libdali")
//	r.Register("Vector2", func(_ string, v value.Value) (dalipp.Printer, error) {
//	    return vector2{v}, nil
//	})
//	r.Freeze()
//
//	host := dalipp.NewHost()
//	host.Install(r)
//	fmt.Println(host.Render(ctx, v)) // "<1.5, 2.5>"
//
// # Printers
//
// A Printer returns display Text. Printers with expandable output also
// implement ChildrenPrinter, and may request a layout with HintPrinter.
// Text can hold a nested value, which is rendered with the same registries.
//
// # Failure Handling
//
// Unknown types and disabled printers produce no output. Unreadable members
// are skipped by the generic printer and shown as "<optimized out>" by the
// default representation. Printer failures are returned as *FormatError by
// Lookup and Format, while Render degrades to the default representation.
//
// # Observability
//
// WithLogger, WithMetrics and WithTracing attach slog logging and
// OpenTelemetry metrics and spans. See package observability.
package dalipp
