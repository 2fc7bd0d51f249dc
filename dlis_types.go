// Copyright 2024 welog authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package welog

// DLISRepCode identifies one of RP66 v1's ~27 on-disk representation codes.
// The numeric values match the standard's own numbering so that a reprc
// byte read off disk can be cast directly to this type.
type DLISRepCode int

// Representation codes, RP66 v1 Appendix B.
const (
	RepFSHORT DLISRepCode = iota + 1
	RepFSINGL
	RepFSING1
	RepFSING2
	RepISINGL
	RepVSINGL
	RepFDOUBL
	RepFDOUB1
	RepFDOUB2
	RepCSINGL
	RepCDOUBL
	RepSSHORT
	RepSNORM
	RepSLONG
	RepUSHORT
	RepUNORM
	RepULONG
	RepUVARI
	RepIDENT
	RepASCII
	RepDTIME
	RepORIGIN
	RepOBNAME
	RepOBJREF
	RepATTREF
	RepSTATUS
	RepUNITS
)

// repSizes mirrors dl::sizeof_type: the fixed on-disk size of every
// representation code, or -1 for variable-length/compound codes whose size
// depends on the value itself.
var repSizes = map[DLISRepCode]int{
	RepFSHORT: 2,
	RepFSINGL: 4,
	RepFSING1: 8,
	RepFSING2: 12,
	RepISINGL: 4,
	RepVSINGL: 4,
	RepFDOUBL: 8,
	RepFDOUB1: 16,
	RepFDOUB2: 24,
	RepCSINGL: 8,
	RepCDOUBL: 16,
	RepSSHORT: 1,
	RepSNORM:  2,
	RepSLONG:  4,
	RepUSHORT: 1,
	RepUNORM:  2,
	RepULONG:  4,
	RepUVARI:  -1,
	RepIDENT:  -1,
	RepASCII:  -1,
	RepDTIME:  8,
	RepORIGIN: -1,
	RepOBNAME: -1,
	RepOBJREF: -1,
	RepATTREF: -1,
	RepSTATUS: 1,
	RepUNITS:  -1,
}

// DiskVariable is the sentinel "size" returned for representation codes and
// format strings that do not have a fixed on-disk footprint.
const DiskVariable = -1

// SizeOf returns the fixed on-disk size of rc, or DiskVariable if rc has no
// fixed size.
func (rc DLISRepCode) SizeOf() int {
	if sz, ok := repSizes[rc]; ok {
		return sz
	}
	return DiskVariable
}

// Valid reports whether rc is one of the 27 defined representation codes.
func (rc DLISRepCode) Valid() bool {
	return rc >= RepFSHORT && rc <= RepUNITS
}

func (rc DLISRepCode) String() string {
	names := [...]string{
		"FSHORT", "FSINGL", "FSING1", "FSING2", "ISINGL", "VSINGL",
		"FDOUBL", "FDOUB1", "FDOUB2", "CSINGL", "CDOUBL", "SSHORT",
		"SNORM", "SLONG", "USHORT", "UNORM", "ULONG", "UVARI", "IDENT",
		"ASCII", "DTIME", "ORIGIN", "OBNAME", "OBJREF", "ATTREF",
		"STATUS", "UNITS",
	}
	if !rc.Valid() {
		return "UNDEF"
	}
	return names[rc-1]
}

// DLISComponentRole is the top-3-bit role field of an EFLR component
// descriptor byte (spec §4.D).
type DLISComponentRole int

const (
	RoleABSATR DLISComponentRole = iota // 000
	RoleATTRIB                          // 001
	RoleINVATR                          // 010
	RoleOBJECT                          // 011
	RoleRESERVED4
	RoleRDSET // 101
	RoleRSET  // 110
	RoleSET   // 111
)

func componentRole(descriptor byte) DLISComponentRole {
	return DLISComponentRole(descriptor >> 5)
}
