package nativeapi

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"encoding/base64"
	"encoding/hex"
)

// Argument convention for every crypto call below: args = [data, key, iv,
// mode, padding], mode ∈ {CBC, ECB}, padding ∈ {PKCS7, NoPadding}. iv is
// ignored in ECB mode.
func (p *Provider) execCrypto(api string, args []string) string {
	data, key, iv, mode, padding := arg(args, 0), arg(args, 1), arg(args, 2), arg(args, 3), arg(args, 4)
	if mode == "" {
		mode = "CBC"
	}
	if padding == "" {
		padding = "PKCS7"
	}

	switch api {
	case "aesEncode":
		return hexOrEmpty(aesCrypt(p, []byte(data), key, iv, mode, padding, true))
	case "aesDecode":
		raw, err := hex.DecodeString(data)
		if err != nil {
			p.warn(api, "invalid hex ciphertext")
			return ""
		}
		return string(mustCrypt(p, aesCrypt(p, raw, key, iv, mode, padding, false)))
	case "aesEncodeArgsBase64":
		return base64OrEmpty(aesCrypt(p, []byte(data), key, iv, mode, padding, true))
	case "aesDecodeArgsBase64":
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			p.warn(api, "invalid base64 ciphertext")
			return ""
		}
		return string(mustCrypt(p, aesCrypt(p, raw, key, iv, mode, padding, false)))

	case "desEncode":
		return hexOrEmpty(desCrypt(p, []byte(data), key, iv, mode, padding, true))
	case "desDecode":
		raw, err := hex.DecodeString(data)
		if err != nil {
			p.warn(api, "invalid hex ciphertext")
			return ""
		}
		return string(mustCrypt(p, desCrypt(p, raw, key, iv, mode, padding, false)))

	case "tripleDesEncodeBase64":
		return base64OrEmpty(tripleDesCrypt(p, []byte(data), key, iv, mode, padding, true))
	case "tripleDesDecodeStr":
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			p.warn(api, "invalid base64 ciphertext")
			return ""
		}
		return string(mustCrypt(p, tripleDesCrypt(p, raw, key, iv, mode, padding, false)))
	case "tripleDesEncodeArgsBase64":
		return base64OrEmpty(tripleDesCrypt(p, []byte(data), key, iv, mode, padding, true))
	case "tripleDesDecodeArgsBase64":
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			p.warn(api, "invalid base64 ciphertext")
			return ""
		}
		return string(mustCrypt(p, tripleDesCrypt(p, raw, key, iv, mode, padding, false)))
	}
	return ""
}

func hexOrEmpty(b []byte, err error) string {
	if err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}

func base64OrEmpty(b []byte, err error) string {
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

func mustCrypt(p *Provider, b []byte, err error) []byte {
	if err != nil {
		p.warn("crypto", err.Error())
		return nil
	}
	return b
}

// normalizeKey pads or truncates key to the exact block-cipher key length
// the algorithm requires (spec.md §6: "key length padded/truncated to
// 16/24/8 bytes").
func normalizeKey(key string, length int) []byte {
	b := make([]byte, length)
	copy(b, key)
	return b
}

func normalizeIV(iv string, length int) []byte {
	b := make([]byte, length)
	copy(b, iv)
	return b
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := bytes.Repeat([]byte{byte(padLen)}, padLen)
	return append(data, padding...)
}

func pkcs7Unpad(data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	padLen := int(data[len(data)-1])
	if padLen <= 0 || padLen > len(data) {
		return data
	}
	return data[:len(data)-padLen]
}

func applyPadding(data []byte, blockSize int, padding string, encrypt bool) []byte {
	if padding == "NoPadding" {
		return data
	}
	if encrypt {
		return pkcs7Pad(data, blockSize)
	}
	return pkcs7Unpad(data)
}

func aesCrypt(p *Provider, data []byte, keyStr, ivStr, mode, padding string, encrypt bool) ([]byte, error) {
	key := normalizeKey(keyStr, 16)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return blockCrypt(block, data, ivStr, mode, padding, encrypt)
}

func desCrypt(p *Provider, data []byte, keyStr, ivStr, mode, padding string, encrypt bool) ([]byte, error) {
	key := normalizeKey(keyStr, 8)
	block, err := des.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return blockCrypt(block, data, ivStr, mode, padding, encrypt)
}

func tripleDesCrypt(p *Provider, data []byte, keyStr, ivStr, mode, padding string, encrypt bool) ([]byte, error) {
	key := normalizeKey(keyStr, 24)
	block, err := des.NewTripleDESCipher(key)
	if err != nil {
		return nil, err
	}
	return blockCrypt(block, data, ivStr, mode, padding, encrypt)
}

func blockCrypt(block cipher.Block, data []byte, ivStr, mode, padding string, encrypt bool) ([]byte, error) {
	bs := block.BlockSize()

	if encrypt {
		data = applyPadding(data, bs, padding, true)
	}

	out := make([]byte, len(data))

	switch mode {
	case "ECB":
		for i := 0; i+bs <= len(data); i += bs {
			if encrypt {
				block.Encrypt(out[i:i+bs], data[i:i+bs])
			} else {
				block.Decrypt(out[i:i+bs], data[i:i+bs])
			}
		}
	default: // CBC
		iv := normalizeIV(ivStr, bs)
		if encrypt {
			cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, data)
		} else {
			cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)
		}
	}

	if !encrypt {
		out = applyPadding(out, bs, padding, false)
	}
	return out, nil
}
