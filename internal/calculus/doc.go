// Package calculus evaluates elementary differentials over the rooted
// tree catalog and composes them into one B-series integration step.
//
// For a scalar autonomous ODE y' = f(y), the elementary differential of a
// tree with children t1..tm is f^(m)(y) * F(t1)(y) * ... * F(tm)(y); the
// single-node tree maps to f(y). A step of size h truncated at order p is
//
//	y + sum_{k=1..p} h^k sum_{|t|=k} alpha(t) F(t)(y)
//
// which reproduces the Taylor expansion of the exact flow through order p.
package calculus
