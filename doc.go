/*
Package savecodec decodes fixed-layout game save files into an editable tree
of values and encodes the tree back into a byte-identical file.

There is no self-describing structure in a save file: a schema, written as a
set of Go types, says what comes next. Every type that can appear in a save
implements Value, and containers (List, OrderedMap, Array) are generic over
Value, so any record can nest any other.

# Binary encoding

All integers are little-endian and fixed-width. There are no varints and no
offsets; a file is read strictly front to back.

**Scalars.** I8/U8 (1 byte), I16/U16 (2), I32/U32/F32 (4), I64/U64/F64 (8).

**Bool.** A full 4-byte signed integer; zero is false, anything else is
true. Always written back as 0 or 1.

**String.** A 4-byte signed length, then:

 1. length == 0: empty string, nothing follows;
 2. length < 0: -length UTF-16LE code units (2*-length bytes);
 3. length > 0: length bytes of Windows-1252 text.

**Enum.** A 1- or 4-byte unsigned integer that must match one of the
enum's variants.

**List.** A 4-byte unsigned count, then that many elements.

**OrderedMap.** A 4-byte unsigned count, then that many key/value pairs.
A repeated key overwrites the earlier value in place.

**Array.** A fixed number of elements with no count prefix.

**Record.** Fields in declaration order, with nothing in between.

# Errors

Decoding stops at the first problem and returns a *DataError that carries
the offset and the field path. Match the cause with errors.Is against
ErrUnexpectedEOF, ErrStringEncoding, ErrInvalidEnum or ErrTrailingData.
*/
package savecodec
