/*
Package server provides the commands shared by all node binaries: writing
the application genesis options and running the ABCI server.
*/
package server
