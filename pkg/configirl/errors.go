package configirl

import perrors "github.com/ajitpratap0/pygitrepo/pkg/errors"

// IsSchemaError reports an invalid configuration type definition.
func IsSchemaError(err error) bool { return perrors.IsType(err, perrors.ErrorTypeSchema) }

// IsUnbound reports use of a field not attached to a Config.
func IsUnbound(err error) bool { return perrors.IsType(err, perrors.ErrorTypeUnbound) }

// IsValueNotSet reports a read of a Constant that has neither a value nor a
// default, directly or through a Derivable dependency.
func IsValueNotSet(err error) bool { return perrors.IsType(err, perrors.ErrorTypeValueNotSet) }

// IsDerivableImmutable reports a write to a Derivable field.
func IsDerivableImmutable(err error) bool {
	return perrors.IsType(err, perrors.ErrorTypeDerivableImmutable)
}

// IsGetterNotImplemented reports a Derivable field without a Getter.
func IsGetterNotImplemented(err error) bool {
	return perrors.IsType(err, perrors.ErrorTypeGetterNotImplemented)
}

// IsNotDumpable reports a dump-checked read of a field hidden from dumps.
func IsNotDumpable(err error) bool { return perrors.IsType(err, perrors.ErrorTypeNotDumpable) }

// IsValidation reports a value rejected by a Validator.
func IsValidation(err error) bool { return perrors.IsType(err, perrors.ErrorTypeValidation) }

// Dependency returns the name of the field that first reported unset in a
// value-not-set error chain.
func Dependency(err error) (string, bool) {
	if !perrors.HasType(err, perrors.ErrorTypeValueNotSet) {
		return "", false
	}
	return dependencyOf(err), true
}
