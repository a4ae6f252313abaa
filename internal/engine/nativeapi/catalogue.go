// Package nativeapi implements the closed catalogue of native APIs named in
// spec.md §6: encoding, hashing, symmetric crypto, time, HTTP, cookies,
// storage, files, zip, string/JSON ops, and logging. Every call is
// dispatched through Provider.Execute(api, args, ctx) and returns a string;
// failures encode as empty string (E-NativeArg/E-NativeFail) except for the
// HTTP group, which returns a JSON envelope with its own status code.
package nativeapi

// names is the closed set of method names the catalogue recognises. It is
// the single source of truth consulted by the L1 template parser (through
// IsKnown) to decide whether `java.NAME(...)` is a known native call
// or must fail over to the script engine as NativeCall(Unknown(name), args).
var names = map[string]bool{
	// encoding
	"base64Encode": true, "base64Decode": true, "base64DecodeWithFlags": true,
	"hexEncode": true, "hexDecode": true, "utf8ToGbk": true, "htmlFormat": true,
	"encodeUri": true, "encodeUriWithCharset": true,

	// hash
	"md5": true, "md5_16": true, "digestHex": true,

	// crypto
	"aesEncode": true, "aesDecode": true,
	"aesEncodeArgsBase64": true, "aesDecodeArgsBase64": true,
	"desEncode": true, "desDecode": true,
	"tripleDesEncodeBase64": true, "tripleDesDecodeStr": true,
	"tripleDesEncodeArgsBase64": true, "tripleDesDecodeArgsBase64": true,

	// time / rand
	"nowMillis": true, "timeFormat": true, "timeFormatUtc": true, "uuidV4": true,

	// http
	"get": true, "post": true, "request": true, "getAll": true,

	// cookie
	"getCookie": true, "setCookie": true,

	// storage
	"cacheGet": true, "cacheSet": true, "sourceVarGet": true, "sourceVarSet": true,

	// file
	"readFile": true, "readTxtFile": true, "readTxtFileWithCharset": true,
	"deleteFile": true, "getFile": true, "importScript": true,

	// zip
	"zipReadString": true, "zipReadStringWithCharset": true,
	"zipReadBytes": true, "zipExtract": true,

	// string
	"trim": true, "replace": true, "split": true, "substring": true,
	"startsWith": true, "endsWith": true, "includes": true,
	"indexOf": true, "lastIndexOf": true, "padStart": true, "padEnd": true,
	"repeat": true, "charAt": true, "charCodeAt": true,
	"toUpper": true, "toLower": true, "htmlToText": true,

	// json
	"jsonPath": true, "parse": true, "stringify": true,

	// misc
	"log": true,

	// supplemented (SPEC_FULL.md §12)
	"decodeObfuscatedFont": true,
}

// IsKnown reports whether name is a recognised java.NAME(...) method.
func IsKnown(name string) bool { return names[name] }
