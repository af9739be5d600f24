// Package hcl loads workflows written in HCL.
//
// A workflow is spread over one or more *.hcl files. Each file may contain
// any mix of the following top-level blocks:
//
//	workflow "demo" {}
//
//	node "start" "begin" {}
//
//	node "branch" "check" {
//	  path       = "initialValue"
//	  comparison = "equals"
//	  value      = "hello world"
//	}
//
//	connection {
//	  from = "begin.out"
//	  to   = "check.in"
//	}
//
// The first label of a node block is its kind and the second its id. Only
// the attributes that belong to the node's kind are accepted.
package hcl
