// Package xlsform loads surveys. Two formats are understood: XLSForm
// workbooks (a "survey" sheet with one row per question and a "choices"
// sheet with one row per option, translated through label::<Language> (<code>)
// columns) and YAML/JSON documents that mirror model.Survey directly.
//
// Sources are files, entries of an fs.FS or, when explicitly enabled, HTTP
// URLs.
package xlsform
