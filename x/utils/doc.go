/*
Package utils contains the decorators wrapped around every handler of the
application: panic recovery, logging, action tagging and savepoints.
*/
package utils
