/*
Package gconf provides a toolset for managing an extension configuration.

Extension must declare a single configuration type. It is stored as a
singleton under the "_c:" + package name key. It is created from the genesis
file and can later be patched by its owner using an update message.
*/
package gconf
