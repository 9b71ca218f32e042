/*

Package base provides base data structures and functions for gorse-libfm.

The base data structures and functions include:

* Row Index of Sparse IDs

* CSV Tables

* Number Formatting

*/
package base
