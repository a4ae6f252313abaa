package nativeapi

var encodingAPIs = set("base64Encode", "base64Decode", "base64DecodeWithFlags", "hexEncode", "hexDecode", "utf8ToGbk", "htmlFormat", "encodeUri", "encodeUriWithCharset")
var hashAPIs = set("md5", "md5_16", "digestHex")
var cryptoAPIs = set("aesEncode", "aesDecode", "aesEncodeArgsBase64", "aesDecodeArgsBase64", "desEncode", "desDecode", "tripleDesEncodeBase64", "tripleDesDecodeStr", "tripleDesEncodeArgsBase64", "tripleDesDecodeArgsBase64")
var timeAPIs = set("nowMillis", "timeFormat", "timeFormatUtc", "uuidV4")
var httpAPIs = set("get", "post", "request", "getAll")
var cookieAPIs = set("getCookie", "setCookie")
var storageAPIs = set("cacheGet", "cacheSet", "sourceVarGet", "sourceVarSet")
var fileAPIs = set("readFile", "readTxtFile", "readTxtFileWithCharset", "deleteFile", "getFile", "importScript")
var zipAPIs = set("zipReadString", "zipReadStringWithCharset", "zipReadBytes", "zipExtract")
var stringAPIs = set("trim", "replace", "split", "substring", "startsWith", "endsWith", "includes", "indexOf", "lastIndexOf", "padStart", "padEnd", "repeat", "charAt", "charCodeAt", "toUpper", "toLower", "htmlToText")
var jsonAPIs = set("jsonPath", "parse", "stringify")

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func isEncodingAPI(a string) bool { return encodingAPIs[a] }
func isHashAPI(a string) bool     { return hashAPIs[a] }
func isCryptoAPI(a string) bool   { return cryptoAPIs[a] }
func isTimeAPI(a string) bool     { return timeAPIs[a] }
func isHTTPAPI(a string) bool     { return httpAPIs[a] }
func isCookieAPI(a string) bool   { return cookieAPIs[a] }
func isStorageAPI(a string) bool  { return storageAPIs[a] }
func isFileAPI(a string) bool     { return fileAPIs[a] }
func isZipAPI(a string) bool      { return zipAPIs[a] }
func isStringAPI(a string) bool   { return stringAPIs[a] }
func isJSONAPI(a string) bool     { return jsonAPIs[a] }
