package system

import "github.com/solkit/txkit/pkg/solana"

// ProgramAddress is the system program id, the all-zero address.
//
// https://explorer.solana.com/address/11111111111111111111111111111111
var ProgramAddress = solana.MustAddressFromBase58("11111111111111111111111111111111")

// RentSysvar points to the system variable "Rent"
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/sysvar/rent.rs#L11
var RentSysvar = solana.MustAddressFromBase58("SysvarRent111111111111111111111111111111111")

// RecentBlockhashesSysvar points to the system variable "Recent Blockhashes"
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/sysvar/recent_blockhashes.rs#L12-L15
var RecentBlockhashesSysvar = solana.MustAddressFromBase58("SysvarRecentB1ockHashes11111111111111111111")
