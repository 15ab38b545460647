// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// HashAPIKey returns the hex-encoded SHA-256 digest of a plaintext API key.
// The plaintext is hashed before lookup so it is never persisted server-side.
func HashAPIKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// KeyLast4 returns the trailing four characters of a plaintext key, used as a
// human-readable identifier for the key.
func KeyLast4(plaintext string) string {
	if len(plaintext) < 4 {
		return plaintext
	}
	return plaintext[len(plaintext)-4:]
}

// IsValidUUID reports whether s is a canonical 8-4-4-4-12 UUID string
func IsValidUUID(s string) bool {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	// uuid.Parse also accepts urn: and braced forms; require the canonical one
	return parsed.String() == s
}
