// Package insts provides A32 instruction definitions and decoding.
//
// This package implements decoding of A32 (32-bit ARM) machine code into
// structured instruction representations. It supports:
//   - Data Processing (immediate shift, register shift, immediate):
//     AND, EOR, SUB, RSB, ADD, ADC, SBC, RSC, TST, TEQ, CMP, CMN, ORR, MOV, BIC, MVN
//   - PC-relative address generation: ADR
//   - Multiply: MUL, MLA, MLS, UMAAL, UMULL, UMLAL, SMULL, SMLAL
//   - Branch and supervisor call: B, BL, SVC
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0xE0810002) // ADD R0, R1, R2
//	fmt.Printf("Op: %v, Rd: %d, Rn: %d, Rm: %d\n", inst.Op, inst.Rd, inst.Rn, inst.Rm)
package insts
