package blockchain

import (
	"bytes"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/trebuchet-org/fundme/internal/domain"
)

const revertPrefix = "execution reverted"

// DecodeRevert turns a node error caused by a revert into *domain.RevertError,
// resolving custom errors against contractABI. Other errors are returned unchanged.
func DecodeRevert(err error, contractABI *abi.ABI) error {
	if err == nil {
		return nil
	}
	var revertErr *domain.RevertError
	if errors.As(err, &revertErr) {
		return err
	}

	data, hasData := revertData(err)
	if !hasData && !strings.Contains(err.Error(), revertPrefix) {
		return err
	}

	out := &domain.RevertError{Data: data, Cause: err}
	if len(data) >= 4 {
		if reason, unpackErr := abi.UnpackRevert(data); unpackErr == nil {
			out.Reason = reason
			return out
		}
		if contractABI != nil {
			for name, abiErr := range contractABI.Errors {
				if bytes.Equal(abiErr.ID[:4], data[:4]) {
					out.ErrorName = name
					return out
				}
			}
		}
		return out
	}

	// Some nodes only put the reason in the message
	if _, reason, ok := strings.Cut(err.Error(), revertPrefix+": "); ok {
		out.Reason = strings.TrimSpace(reason)
	}
	return out
}

// revertData extracts the hex revert payload carried by JSON-RPC errors
func revertData(err error) ([]byte, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return nil, false
	}
	switch v := dataErr.ErrorData().(type) {
	case string:
		data, decodeErr := hexutil.Decode(v)
		if decodeErr != nil {
			return nil, false
		}
		return data, true
	case []byte:
		return v, true
	default:
		return nil, false
	}
}
