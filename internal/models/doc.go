// Package models defines the core domain records for the balance and
// settlement engine.
//
// # Records
//
//   - Member: an account participating in groups, with an optional UPI handle
//   - Group: a scope within which balances are computed
//   - Expense: an atomic shared expense with its per-member splits
//   - Settlement: a claimed or confirmed payment between two members
//
// # Design Principles
//
//  1. All amounts are integer paise (money.Paise); floats never enter a model.
//  2. Expenses are immutable once created; corrections are new records.
//  3. Settlements are append-only: they change status, they are never deleted.
//  4. "Which settlement statuses count toward balances" is defined exactly
//     once, on SettlementStatus, and consumed everywhere else.
//  5. Relationships use ID strings, not pointers, to avoid circular references.
package models
