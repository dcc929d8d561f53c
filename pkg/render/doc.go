/*
Package render presents generated names. HTMLRenderer produces a web page from
html/template files, with a built-in default page; TextRenderer writes plain
text for terminals and logs.
*/
package render
