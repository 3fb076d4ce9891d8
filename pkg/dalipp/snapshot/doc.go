/*
Package snapshot reads and writes value trees as YAML or JSON documents.

A snapshot stands in for a live debugger session: it describes the values
a printer would see, with their types, members, pointers and payloads, so
the registry can be exercised from files, from the capture store and from
tests.

# Format

	types:
	  - name: Dali::Property::Type
	    enum:
	      Dali::Property::BOOLEAN: 1
	      Dali::Property::INTEGER: 3
	  - name: Dali::Vector<int>
	    template_args: [int]
	values:
	  - name: position
	    type: Dali::Vector2
	    fields:
	      - {name: x, type: float, value: 1.5}
	      - {name: y, type: float, value: 2.5}
	  - name: parent
	    type: Dali::Actor *
	    pointer:
	      type: Dali::Actor
	      address: 0x1000

The kind of a record is inferred when omitted. A pointee, an is_null flag
or a type ending in "*" makes a pointer; elements make an array; fields
make a struct. Otherwise a declared type decides, and failing that the
payload picks int, float, bool or string. JSON integer literals count as
integers, the same as in YAML.

# Usage

	snap, err := snapshot.LoadFile("scene.yaml")
	if err != nil {
	    return err
	}
	for _, nv := range snap.Values {
	    fmt.Println(nv.Name, "=", host.Render(ctx, nv.Value))
	}

Watch reloads a snapshot file whenever it changes on disk.
*/
package snapshot
