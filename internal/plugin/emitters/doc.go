// Package emitters holds the built-in emitters. Document emitters run once
// per published document on the emit worker pool; collection emitters see the
// whole site. Both only read the Site.
package emitters
